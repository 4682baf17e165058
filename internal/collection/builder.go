package collection

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/collectionbuilder/internal/authors"
	"git.home.luguber.info/inful/collectionbuilder/internal/docmodel"
	derrors "git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
	"git.home.luguber.info/inful/collectionbuilder/internal/markup"
	"git.home.luguber.info/inful/collectionbuilder/internal/metrics"
	"git.home.luguber.info/inful/collectionbuilder/internal/schema"
)

// Builder runs one full build pass over a set of collection definitions.
type Builder struct {
	defs          []Definition
	transformer   *Transformer
	recorder      metrics.Recorder
	logger        *slog.Logger
	concurrency   int
	includeDrafts bool
	now           func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithConcurrency bounds the number of documents transformed at once.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithDrafts controls whether draft records are admitted. Admitted drafts keep
// their Draft flag; the Published* queries filter them.
func WithDrafts(include bool) Option {
	return func(b *Builder) { b.includeDrafts = include }
}

// WithClock overrides the manifest timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		if now != nil {
			b.now = now
		}
	}
}

// NewBuilder creates a Builder. Documents are transformed by tr.
func NewBuilder(defs []Definition, tr *Transformer, opts ...Option) *Builder {
	b := &Builder{
		defs:          append([]Definition(nil), defs...),
		transformer:   tr,
		recorder:      metrics.NoopRecorder{},
		logger:        slog.Default(),
		concurrency:   runtime.NumCPU(),
		includeDrafts: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the outcome of a build pass.
type Result struct {
	Registry *Registry
	Manifest *Manifest
	Failures []Failure
}

// Build discovers, parses, validates and transforms every document. A failing
// document is logged, recorded in Failures and excluded; the remaining
// documents still build. An error is returned only when the build as a whole
// cannot proceed (unreadable directories, cancellation).
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	buildID := uuid.NewString()
	logger := b.logger.With(logfields.BuildID(buildID))
	logger.Info("Build started", logfields.Count(len(b.defs)))

	var (
		customers []*CustomerRecord
		jobs      []*JobRecord
		posts     []*PostRecord
		failures  []Failure
		sizes     = make(map[string][]summaryEntry, len(b.defs))
	)

	for _, def := range b.defs {
		files, err := Discover(def, logger)
		if err != nil {
			b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
			return nil, err
		}

		var fails []Failure
		switch def.Kind {
		case KindCustomer:
			var recs []*CustomerRecord
			recs, fails = buildCollection(ctx, b, logger, def, files, b.transformer.Customer)
			customers = append(customers, recs...)
			sizes[def.Name] = summarize(recs)
		case KindJob:
			var recs []*JobRecord
			recs, fails = buildCollection(ctx, b, logger, def, files, b.transformer.Job)
			jobs = append(jobs, recs...)
			sizes[def.Name] = summarize(recs)
		case KindPost:
			var recs []*PostRecord
			recs, fails = buildCollection(ctx, b, logger, def, files, b.transformer.Post)
			posts = append(posts, recs...)
			sizes[def.Name] = summarize(recs)
		default:
			b.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
			return nil, derrors.ConfigError("unknown collection kind").
				WithContext("collection", def.Name).
				WithContext("kind", string(def.Kind)).
				Build()
		}
		failures = append(failures, fails...)

		if err := ctx.Err(); err != nil {
			b.recorder.IncBuildOutcome(metrics.BuildOutcomeCanceled)
			logger.Warn("Build canceled", logfields.Collection(def.Name))
			return nil, err
		}
	}

	reg := NewRegistry(customers, jobs, posts)
	manifest := &Manifest{
		BuildID:     buildID,
		GeneratedAt: b.now().UTC(),
		Collections: make(map[string]CollectionSummary, len(sizes)),
		Failures:    make([]FailureSummary, 0, len(failures)),
	}
	for name, entries := range sizes {
		manifest.Collections[name] = newCollectionSummary(entries)
		b.recorder.SetCollectionSize(name, len(entries))
	}
	for _, f := range failures {
		manifest.Failures = append(manifest.Failures, summarizeFailure(f))
	}

	elapsed := time.Since(start)
	b.recorder.ObserveBuildDuration(elapsed)
	if len(failures) > 0 {
		b.recorder.IncBuildOutcome(metrics.BuildOutcomePartial)
	} else {
		b.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
	}
	logger.Info("Build finished",
		logfields.Count(reg.Len()),
		slog.Int("failures", len(failures)),
		logfields.DurationMS(float64(elapsed.Microseconds())/1000))

	return &Result{Registry: reg, Manifest: manifest, Failures: failures}, nil
}

// buildCollection transforms the files of one collection and drops
// duplicate slugs and, when configured, drafts. Records stay in path order.
func buildCollection[R record](
	ctx context.Context,
	b *Builder,
	logger *slog.Logger,
	def Definition,
	files []string,
	transform func(context.Context, *docmodel.ContentDocument) (R, error),
) ([]R, []Failure) {
	results := runOrdered(ctx, files, b.concurrency, func(ctx context.Context, file string) (R, error) {
		started := time.Now()
		defer func() { b.recorder.ObserveDocumentDuration(def.Name, time.Since(started)) }()

		doc, err := docmodel.ParseFile(docmodel.Meta{Collection: def.Name, Root: def.Directory, FilePath: file})
		if err != nil {
			var zero R
			return zero, err
		}
		return transform(ctx, doc)
	})

	var (
		records  []R
		failures []Failure
		owners   = make(map[string]string)
	)
	for i, res := range results {
		rel := relPath(def.Directory, files[i])
		if res.Err != nil {
			if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
				b.recorder.IncDocumentResult(def.Name, metrics.ResultCanceled)
				continue
			}
			failures = append(failures, b.reject(logger, def.Name, rel, res.Err))
			continue
		}

		rec := res.Value
		if owner, taken := owners[rec.slug()]; taken {
			err := derrors.WrapError(&DuplicateSlugError{Slug: rec.slug(), OwnedBy: owner}, derrors.CategoryValidation, "duplicate slug").
				WithContext("path", rel).
				WithContext("slug", rec.slug()).
				Build()
			failures = append(failures, b.reject(logger, def.Name, rel, err))
			continue
		}
		owners[rec.slug()] = rel

		if rec.draft() && !b.includeDrafts {
			logger.Debug("Skipping draft", logfields.Collection(def.Name), logfields.Path(rel))
			continue
		}
		b.recorder.IncDocumentResult(def.Name, metrics.ResultSuccess)
		records = append(records, rec)
	}

	logger.Info("Collection built",
		logfields.Collection(def.Name),
		logfields.Count(len(records)),
		slog.Int("failures", len(failures)))
	return records, failures
}

func (b *Builder) reject(logger *slog.Logger, collection, path string, err error) Failure {
	b.recorder.IncDocumentResult(collection, resultLabel(err))
	attrs := []any{logfields.Collection(collection), logfields.Path(path), logfields.Error(err)}
	if ce, ok := derrors.AsClassified(err); ok {
		if field, ok := ce.Context().GetString("field"); ok && field != "" {
			attrs = append(attrs, logfields.Field(field))
		}
		if stage, ok := ce.Context().GetString("stage"); ok && stage != "" {
			attrs = append(attrs, logfields.Stage(stage))
		}
		if username, ok := ce.Context().GetString("username"); ok && username != "" {
			attrs = append(attrs, logfields.Username(username))
		}
	}
	logger.Error("Document rejected", attrs...)
	return Failure{Collection: collection, Path: path, Err: err}
}

func resultLabel(err error) metrics.ResultLabel {
	switch {
	case errors.Is(err, schema.ErrSchemaViolation):
		return metrics.ResultSchema
	case errors.Is(err, markup.ErrCompile):
		return metrics.ResultCompile
	case errors.Is(err, authors.ErrUnresolvedAuthor):
		return metrics.ResultAuthor
	case errors.Is(err, ErrDuplicateSlug):
		return metrics.ResultDupSlug
	default:
		return metrics.ResultFailed
	}
}

func relPath(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}
