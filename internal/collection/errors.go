package collection

import (
	"errors"
	"fmt"

	derrors "git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// ErrDuplicateSlug is reported for every document whose slug an earlier
// document (by path) in the same collection already claimed.
var ErrDuplicateSlug = errors.New("duplicate slug")

// DuplicateSlugError names the slug and the document that kept it.
type DuplicateSlugError struct {
	Slug    string
	OwnedBy string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("slug %q already used by %s", e.Slug, e.OwnedBy)
}

func (e *DuplicateSlugError) Is(target error) bool { return target == ErrDuplicateSlug }

// Failure is a document excluded from its collection.
type Failure struct {
	Collection string
	Path       string
	Err        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s/%s: %v", f.Collection, f.Path, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Category returns the error category of the failure, or "" when unclassified.
func (f Failure) Category() derrors.ErrorCategory {
	if ce, ok := derrors.AsClassified(f.Err); ok {
		return ce.Category()
	}
	return ""
}
