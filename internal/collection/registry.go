package collection

import (
	"cmp"
	"slices"
)

// Registry exposes the admitted records of one build. It is read-only after
// construction; list accessors return copies.
type Registry struct {
	customers []*CustomerRecord
	jobs      []*JobRecord
	posts     []*PostRecord
}

// NewRegistry builds a registry. Posts are ordered newest first, ties by path;
// customers and jobs keep path order.
func NewRegistry(customers []*CustomerRecord, jobs []*JobRecord, posts []*PostRecord) *Registry {
	r := &Registry{
		customers: slices.Clone(customers),
		jobs:      slices.Clone(jobs),
		posts:     slices.Clone(posts),
	}
	slices.SortStableFunc(r.customers, func(a, b *CustomerRecord) int { return cmp.Compare(a.Meta.Path, b.Meta.Path) })
	slices.SortStableFunc(r.jobs, func(a, b *JobRecord) int { return cmp.Compare(a.Meta.Path, b.Meta.Path) })
	slices.SortStableFunc(r.posts, func(a, b *PostRecord) int {
		if c := cmp.Compare(b.Date, a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Meta.Path, b.Meta.Path)
	})
	return r
}

// Customers returns all customer records.
func (r *Registry) Customers() []*CustomerRecord { return slices.Clone(r.customers) }

// Jobs returns all job records.
func (r *Registry) Jobs() []*JobRecord { return slices.Clone(r.jobs) }

// Posts returns all post records, newest first.
func (r *Registry) Posts() []*PostRecord { return slices.Clone(r.posts) }

// Len is the total number of records.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.customers) + len(r.jobs) + len(r.posts)
}

// PublishedCustomers returns non-draft customers.
func (r *Registry) PublishedCustomers() []*CustomerRecord { return published(r.customers) }

// PublishedJobs returns non-draft jobs.
func (r *Registry) PublishedJobs() []*JobRecord { return published(r.jobs) }

// PublishedPosts returns non-draft posts, newest first.
func (r *Registry) PublishedPosts() []*PostRecord { return published(r.posts) }

func published[R record](in []R) []R {
	out := make([]R, 0, len(in))
	for _, rec := range in {
		if !rec.draft() {
			out = append(out, rec)
		}
	}
	return out
}

// CustomersByOrder returns customers by ascending order; customers without
// an order follow, in path order.
func (r *Registry) CustomersByOrder() []*CustomerRecord {
	out := slices.Clone(r.customers)
	slices.SortStableFunc(out, func(a, b *CustomerRecord) int {
		switch {
		case a.Order == nil && b.Order == nil:
			return 0
		case a.Order == nil:
			return 1
		case b.Order == nil:
			return -1
		default:
			return cmp.Compare(*a.Order, *b.Order)
		}
	})
	return out
}

// CustomerBySlug finds a customer by slug.
func (r *Registry) CustomerBySlug(slug string) (*CustomerRecord, bool) { return bySlug(r.customers, slug) }

// JobBySlug finds a job by slug.
func (r *Registry) JobBySlug(slug string) (*JobRecord, bool) { return bySlug(r.jobs, slug) }

// PostBySlug finds a post by its declared slug.
func (r *Registry) PostBySlug(slug string) (*PostRecord, bool) { return bySlug(r.posts, slug) }

func bySlug[R record](in []R, slug string) (R, bool) {
	for _, rec := range in {
		if rec.slug() == slug {
			return rec, true
		}
	}
	var zero R
	return zero, false
}

// PostsByTag returns posts carrying tag, newest first.
func (r *Registry) PostsByTag(tag string) []*PostRecord {
	var out []*PostRecord
	for _, p := range r.posts {
		if slices.Contains(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// PostsByAuthor returns posts listing username as an author, newest first.
func (r *Registry) PostsByAuthor(username string) []*PostRecord {
	var out []*PostRecord
	for _, p := range r.posts {
		if slices.Contains(p.Authors, username) {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns every tag used by a post, sorted and deduplicated.
func (r *Registry) Tags() []string {
	var tags []string
	for _, p := range r.posts {
		tags = append(tags, p.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
