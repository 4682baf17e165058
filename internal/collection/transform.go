package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/collectionbuilder/internal/authors"
	"git.home.luguber.info/inful/collectionbuilder/internal/docmodel"
	derrors "git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
	"git.home.luguber.info/inful/collectionbuilder/internal/markup"
	"git.home.luguber.info/inful/collectionbuilder/internal/readingtime"
	"git.home.luguber.info/inful/collectionbuilder/internal/schema"
)

const dateLayout = "2006-01-02"

// TransformerOptions configures a Transformer.
type TransformerOptions struct {
	// Authors resolves post author usernames. Required for posts.
	Authors *authors.Registry
	// ImagePrefix is prepended to author image file names; defaults to authors.DefaultImagePrefix.
	ImagePrefix string
	// Theme names the highlight theme for post code blocks; defaults to markup.DefaultTheme.
	Theme string
	// ObserveStage receives the duration of every compile stage run.
	ObserveStage func(stage string, d time.Duration)
	Logger       *slog.Logger
}

// Transformer turns parsed documents into records. It holds no per-document
// state and is safe for concurrent use.
type Transformer struct {
	plain       *markup.Compiler
	article     *markup.Compiler
	authors     *authors.Registry
	imagePrefix string
	logger      *slog.Logger
}

// NewTransformer builds the compilers for every content type.
func NewTransformer(opts TransformerOptions) (*Transformer, error) {
	if opts.ImagePrefix == "" {
		opts.ImagePrefix = authors.DefaultImagePrefix
	}
	if opts.Authors == nil {
		opts.Authors = authors.NewRegistry(nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	plainOpts := markup.PlainOptions()
	plainOpts.Observe = opts.ObserveStage
	plain, err := markup.NewCompiler(plainOpts)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to build plain compiler").Build()
	}

	articleOpts, err := markup.ArticleOptions(opts.Theme)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "invalid highlight theme").
			WithContext("theme", opts.Theme).
			Build()
	}
	articleOpts.Observe = opts.ObserveStage
	article, err := markup.NewCompiler(articleOpts)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryInternal, "failed to build article compiler").Build()
	}

	return &Transformer{
		plain:       plain,
		article:     article,
		authors:     opts.Authors,
		imagePrefix: opts.ImagePrefix,
		logger:      opts.Logger,
	}, nil
}

// ArticleStages returns the resolved compile chain used for posts.
func (t *Transformer) ArticleStages() []markup.Stage { return t.article.Stages() }

// Customer validates and transforms a customer document. Slug is the document path.
func (t *Transformer) Customer(ctx context.Context, doc *docmodel.ContentDocument) (*CustomerRecord, error) {
	rec, err := decode[CustomerRecord](t, CustomerSchema, doc)
	if err != nil {
		return nil, err
	}
	derived, err := t.derive(ctx, t.plain, CustomerSchema, doc)
	if err != nil {
		return nil, err
	}
	rec.Derived = derived
	return &rec, nil
}

// Job validates and transforms a job document. Slug is the document path.
func (t *Transformer) Job(ctx context.Context, doc *docmodel.ContentDocument) (*JobRecord, error) {
	rec, err := decode[JobRecord](t, JobSchema, doc)
	if err != nil {
		return nil, err
	}
	derived, err := t.derive(ctx, t.plain, JobSchema, doc)
	if err != nil {
		return nil, err
	}
	rec.Derived = derived
	return &rec, nil
}

// Post validates and transforms a blog post: compiled body with headings,
// table of contents and highlighting, file-name date, reading time and
// resolved authors. Slug comes from front-matter.
func (t *Transformer) Post(ctx context.Context, doc *docmodel.ContentDocument) (*PostRecord, error) {
	rec, err := decode[PostRecord](t, PostSchema, doc)
	if err != nil {
		return nil, err
	}

	date, err := postDate(doc)
	if err != nil {
		return nil, err
	}

	resolved, err := t.authors.Resolve(rec.Authors, t.imagePrefix)
	if err != nil {
		var unresolved *authors.UnresolvedError
		username := ""
		if errors.As(err, &unresolved) {
			username = unresolved.Username
		}
		return nil, derrors.WrapError(err, derrors.CategoryAuthor, "post references an unknown author").
			WithContext("path", doc.Path).
			WithContext("username", username).
			Build()
	}

	derived, err := t.derive(ctx, t.article, PostSchema, doc)
	if err != nil {
		return nil, err
	}

	rt := readingtime.Estimate(doc.Body)
	rec.Date = date
	rec.ReadingTime = rt.Text
	rec.Words = rt.Words
	rec.AuthorsData = resolved
	rec.Content = derived.Content
	rec.Body = derived.Body
	rec.Meta = derived.Meta
	rec.Fingerprint = derived.Fingerprint
	return &rec, nil
}

// decode validates the front-matter and decodes admitted fields into T.
func decode[T any](t *Transformer, s schema.Schema, doc *docmodel.ContentDocument) (T, error) {
	if unknown := s.Unknown(doc.FrontMatter); len(unknown) > 0 {
		t.logger.Debug("Stripping unknown front-matter keys",
			logfields.Collection(doc.Collection),
			logfields.Path(doc.Path),
			slog.Any("keys", unknown))
	}
	rec, err := schema.Decode[T](s, doc.FrontMatter)
	if err != nil {
		var zero T
		field := ""
		var v *schema.Violation
		if errors.As(err, &v) {
			field = v.Field
		}
		return zero, derrors.WrapError(err, derrors.CategorySchema, "front-matter does not match schema").
			WithContext("path", doc.Path).
			WithContext("field", field).
			Build()
	}
	return rec, nil
}

// derive compiles the body and fills the fields shared by all record types.
func (t *Transformer) derive(ctx context.Context, c *markup.Compiler, s schema.Schema, doc *docmodel.ContentDocument) (Derived, error) {
	compiled, err := c.Compile(ctx, doc.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Derived{}, ctxErr
		}
		stage := ""
		var ce *markup.CompileError
		if errors.As(err, &ce) {
			stage = ce.Stage
		}
		return Derived{}, derrors.WrapError(err, derrors.CategoryCompile, "failed to compile body").
			WithContext("path", doc.Path).
			WithContext("stage", stage).
			Build()
	}

	fp, err := Fingerprint(s.Admit(doc.FrontMatter), doc.Body)
	if err != nil {
		return Derived{}, derrors.WrapError(err, derrors.CategoryInternal, "failed to fingerprint document").
			WithContext("path", doc.Path).
			Build()
	}

	return Derived{
		Slug:        doc.Path,
		Content:     doc.Body,
		Body:        compiled,
		Meta:        sourceOf(doc),
		Fingerprint: fp,
	}, nil
}

// postDate reads the YYYY-MM-DD prefix of the file name.
func postDate(doc *docmodel.ContentDocument) (string, error) {
	name := doc.FileName
	if len(name) < len(dateLayout) {
		return "", dateViolation(doc, describeDatePrefix(name))
	}
	prefix := name[:len(dateLayout)]
	if _, err := time.Parse(dateLayout, prefix); err != nil {
		return "", dateViolation(doc, describeDatePrefix(prefix))
	}
	return prefix, nil
}

func describeDatePrefix(s string) string {
	return fmt.Sprintf("file name prefix %q", s)
}

func dateViolation(doc *docmodel.ContentDocument, got string) error {
	v := &schema.Violation{
		Schema:   PostSchema.Name,
		Field:    "date",
		Expected: "file name starting with " + dateLayout,
		Got:      got,
	}
	return derrors.WrapError(v, derrors.CategorySchema, "post file name carries no date").
		WithContext("path", doc.Path).
		WithContext("field", "date").
		Build()
}
