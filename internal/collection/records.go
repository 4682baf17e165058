package collection

import (
	"git.home.luguber.info/inful/collectionbuilder/internal/authors"
	"git.home.luguber.info/inful/collectionbuilder/internal/docmodel"
	"git.home.luguber.info/inful/collectionbuilder/internal/markup"
	"git.home.luguber.info/inful/collectionbuilder/internal/schema"
)

// Schemas for the three content types. Field order decides which violation
// is reported first.
var (
	CustomerSchema = schema.New("Customer",
		schema.Required("company_name", schema.String),
		schema.Required("company_url", schema.String),
		schema.Required("company_logo", schema.String),
		schema.Required("user_name", schema.String),
		schema.Required("user_title", schema.String),
		schema.Required("user_photo", schema.String),
		schema.Required("highlight", schema.String),
		schema.Required("cover_image", schema.String),
		schema.Optional("draft", schema.Boolean),
		schema.Optional("order", schema.Number),
	)

	JobSchema = schema.New("Job",
		schema.Required("title", schema.String),
		schema.Required("summary", schema.String),
		schema.Required("experience", schema.String),
		schema.Required("how", schema.String),
		schema.Required("location", schema.String),
		schema.Required("skills", schema.StringList),
		schema.Optional("draft", schema.Boolean),
	)

	PostSchema = schema.New("Post",
		schema.Required("slug", schema.String),
		schema.Required("title", schema.String),
		schema.Optional("description", schema.String),
		schema.Required("authors", schema.StringList),
		schema.Required("tags", schema.StringList),
		schema.Optional("image", schema.String),
		schema.Optional("tweet", schema.String),
		schema.Optional("draft", schema.Boolean),
	)
)

// Source describes where a record came from.
type Source struct {
	// Path is relative to the collection directory, slash-separated, without extension.
	Path      string `json:"path"`
	FileName  string `json:"fileName"`
	Directory string `json:"directory"`
	Extension string `json:"extension"`
	FilePath  string `json:"filePath"`
}

func sourceOf(doc *docmodel.ContentDocument) Source {
	return Source{
		Path:      doc.Path,
		FileName:  doc.FileName,
		Directory: doc.Directory,
		Extension: doc.Extension,
		FilePath:  doc.FilePath,
	}
}

// Derived holds the fields every record gets from its transform.
type Derived struct {
	Slug string `yaml:"-" json:"slug"`
	// Content is the raw body.
	Content string           `yaml:"-" json:"content"`
	Body    *markup.Compiled `yaml:"-" json:"mdx"`
	Meta    Source           `yaml:"-" json:"_meta"`
	// Fingerprint hashes the admitted front-matter and raw body.
	Fingerprint string `yaml:"-" json:"fingerprint"`
}

// CustomerRecord is a customer story.
type CustomerRecord struct {
	CompanyName string   `yaml:"company_name" json:"company_name"`
	CompanyURL  string   `yaml:"company_url" json:"company_url"`
	CompanyLogo string   `yaml:"company_logo" json:"company_logo"`
	UserName    string   `yaml:"user_name" json:"user_name"`
	UserTitle   string   `yaml:"user_title" json:"user_title"`
	UserPhoto   string   `yaml:"user_photo" json:"user_photo"`
	Highlight   string   `yaml:"highlight" json:"highlight"`
	CoverImage  string   `yaml:"cover_image" json:"cover_image"`
	Draft       bool     `yaml:"draft" json:"draft"`
	Order       *float64 `yaml:"order" json:"order,omitempty"`

	Derived `yaml:"-"`
}

// JobRecord is an open position.
type JobRecord struct {
	Title      string   `yaml:"title" json:"title"`
	Summary    string   `yaml:"summary" json:"summary"`
	Experience string   `yaml:"experience" json:"experience"`
	How        string   `yaml:"how" json:"how"`
	Location   string   `yaml:"location" json:"location"`
	Skills     []string `yaml:"skills" json:"skills"`
	Draft      bool     `yaml:"draft" json:"draft"`

	Derived `yaml:"-"`
}

// PostRecord is a blog post. Slug is declared in front-matter.
type PostRecord struct {
	Slug        string   `yaml:"slug" json:"slug"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Authors     []string `yaml:"authors" json:"authors"`
	Tags        []string `yaml:"tags" json:"tags"`
	Image       string   `yaml:"image" json:"image,omitempty"`
	Tweet       string   `yaml:"tweet" json:"tweet,omitempty"`
	Draft       bool     `yaml:"draft" json:"draft"`

	// Date is the ISO date prefix of the file name.
	Date        string             `yaml:"-" json:"date"`
	ReadingTime string             `yaml:"-" json:"readingTime"`
	Words       int                `yaml:"-" json:"words"`
	AuthorsData []authors.Resolved `yaml:"-" json:"authorsData"`

	Content     string           `yaml:"-" json:"content"`
	Body        *markup.Compiled `yaml:"-" json:"mdx"`
	Meta        Source           `yaml:"-" json:"_meta"`
	Fingerprint string           `yaml:"-" json:"fingerprint"`
}

func (r *CustomerRecord) source() Source { return r.Meta }
func (r *CustomerRecord) slug() string   { return r.Slug }
func (r *CustomerRecord) hash() string   { return r.Fingerprint }
func (r *CustomerRecord) draft() bool    { return r.Draft }
func (r *JobRecord) source() Source      { return r.Meta }
func (r *JobRecord) slug() string        { return r.Slug }
func (r *JobRecord) hash() string        { return r.Fingerprint }
func (r *JobRecord) draft() bool         { return r.Draft }
func (r *PostRecord) source() Source     { return r.Meta }
func (r *PostRecord) slug() string       { return r.Slug }
func (r *PostRecord) hash() string       { return r.Fingerprint }
func (r *PostRecord) draft() bool        { return r.Draft }

// record is implemented by every record type.
type record interface {
	*CustomerRecord | *JobRecord | *PostRecord
	source() Source
	slug() string
	hash() string
	draft() bool
}
