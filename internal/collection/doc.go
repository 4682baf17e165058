// Package collection turns content directories into typed, queryable record
// collections.
//
// A Builder discovers the files of each Definition, parses and validates them
// against the content type's schema, runs the per-type transform (compile
// body, derive slug, post enrichment) concurrently across documents, and
// collects per-document failures without stopping the build. The result is a
// read-only Registry plus a Manifest that can be written to disk as JSON for a
// downstream site generator.
package collection
