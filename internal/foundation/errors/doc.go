// Package errors provides foundational, type-safe error primitives used across collectionbuilder.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, schema, compile, author, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLI adapter for exit codes and error presentation
//
// Example usage:
//
//	err := errors.WrapError(violation, errors.CategorySchema, "front-matter rejected").
//		WithContext("path", doc.Path).
//		WithContext("collection", "posts").
//		Build()
package errors
