package collection

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/collectionbuilder/internal/logfields"
)

// Kind selects the schema and transform applied to a collection.
type Kind string

const (
	KindCustomer Kind = "Customer"
	KindJob      Kind = "Job"
	KindPost     Kind = "Post"
)

// Collection names as exposed to consumers.
const (
	Customers = "customers"
	Jobs      = "jobs"
	Posts     = "posts"
)

// DefaultInclude matches MDX files directly under a collection directory.
const DefaultInclude = "*.mdx"

// Definition binds a named collection to a source directory and content type.
type Definition struct {
	Name      string
	Kind      Kind
	Directory string
	Include   string
}

// DefaultDefinitions returns customers, jobs and posts under root.
func DefaultDefinitions(root string) []Definition {
	return []Definition{
		{Name: Customers, Kind: KindCustomer, Directory: filepath.Join(root, "customer"), Include: DefaultInclude},
		{Name: Jobs, Kind: KindJob, Directory: filepath.Join(root, "job"), Include: DefaultInclude},
		{Name: Posts, Kind: KindPost, Directory: filepath.Join(root, "blog"), Include: DefaultInclude},
	}
}

// Discover lists files directly under the definition's directory whose name
// matches Include, sorted. A missing directory is an empty collection.
func Discover(def Definition, logger *slog.Logger) ([]string, error) {
	include := def.Include
	if include == "" {
		include = DefaultInclude
	}
	if _, err := path.Match(include, ""); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid include pattern").
			WithContext("collection", def.Name).
			WithContext("include", include).
			Build()
	}

	entries, err := os.ReadDir(def.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Collection directory does not exist",
				logfields.Collection(def.Name),
				logfields.Path(def.Directory))
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read collection directory").
			WithContext("collection", def.Name).
			WithContext("path", def.Directory).
			Build()
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := path.Match(include, e.Name()); ok {
			files = append(files, filepath.Join(def.Directory, e.Name()))
		}
	}
	slices.Sort(files)
	return files, nil
}
