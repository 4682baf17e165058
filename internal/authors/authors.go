// Package authors holds the read-only author registry used to enrich blog posts.
package authors

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/collectionbuilder/internal/foundation/errors"
)

// DefaultImagePrefix is prepended to an author's image file name.
const DefaultImagePrefix = "/authors/"

// ErrUnresolvedAuthor is matched by every *UnresolvedError via errors.Is.
var ErrUnresolvedAuthor = errors.New("unresolved author")

// UnresolvedError reports a username that is not in the registry.
type UnresolvedError struct {
	Username string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("author %q is not in the registry", e.Username)
}

func (e *UnresolvedError) Is(target error) bool { return target == ErrUnresolvedAuthor }

// Author is a profile as stored in the registry.
type Author struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title,omitempty" json:"title,omitempty"`
	Bio      string `yaml:"bio,omitempty" json:"bio,omitempty"`
	Image    string `yaml:"image" json:"image"`
	Twitter  string `yaml:"twitter,omitempty" json:"twitter,omitempty"`
	Linkedin string `yaml:"linkedin,omitempty" json:"linkedin,omitempty"`
}

// Resolved is an author attached to a post: the username plus the profile with an absolute image path.
type Resolved struct {
	Username string `json:"username"`
	Author
}

// Registry is an immutable username -> profile lookup.
type Registry struct {
	entries map[string]Author
}

// NewRegistry copies entries into a new registry.
func NewRegistry(entries map[string]Author) *Registry {
	return &Registry{entries: maps.Clone(entries)}
}

// Load reads a registry from a YAML mapping of username to profile.
func Load(path string) (*Registry, error) {
	// #nosec G304 -- path comes from configuration.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to read author registry").
			WithContext("path", path).
			Build()
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "failed to parse author registry").
			WithContext("path", path).
			Build()
	}
	return reg, nil
}

// Parse decodes a YAML registry document. Unknown profile keys are rejected.
func Parse(data []byte) (*Registry, error) {
	entries := map[string]Author{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for username, a := range entries {
		if strings.TrimSpace(a.Name) == "" {
			return nil, fmt.Errorf("author %q: name is required", username)
		}
	}
	return &Registry{entries: entries}, nil
}

// Lookup returns the profile for username.
func (r *Registry) Lookup(username string) (Author, bool) {
	if r == nil {
		return Author{}, false
	}
	a, ok := r.entries[username]
	return a, ok
}

// Usernames returns all registered usernames, sorted.
func (r *Registry) Usernames() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.entries))
}

// Len returns the number of registered authors.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Resolve maps usernames to profiles in order, prefixing each image with imagePrefix.
// The first unknown username fails the whole resolution.
func (r *Registry) Resolve(usernames []string, imagePrefix string) ([]Resolved, error) {
	out := make([]Resolved, 0, len(usernames))
	for _, username := range usernames {
		a, ok := r.Lookup(username)
		if !ok {
			return nil, derrors.WrapError(&UnresolvedError{Username: username}, derrors.CategoryAuthor, "failed to resolve post author").
				WithContext("username", username).
				Build()
		}
		a.Image = imagePrefix + a.Image
		out = append(out, Resolved{Username: username, Author: a})
	}
	return out, nil
}
