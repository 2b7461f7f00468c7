// Package errors provides foundational, type-safe error primitives used across docnav.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, sidebar, routes, links, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, backoff, user action)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - HTTP and CLI adapters for error presentation
//
// Sentinel errors compare by category and message, so a sentinel declared once
// matches every error built with the same category and message regardless of
// the context attached to it:
//
//	var ErrDanglingReference = errors.SidebarError("dangling document reference").Build()
//
//	err := errors.SidebarError("dangling document reference").
//		WithContext("doc_id", id).
//		WithContext("sidebar", name).
//		Build()
//
//	stdErrors.Is(err, ErrDanglingReference) // true
package errors
