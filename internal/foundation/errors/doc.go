// Package errors provides foundational, type-safe error primitives used across weave.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, repository, detection, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and message formatting for the command line
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryRepository, "not a git repository").
//		WithContext("path", repoPath).
//		WithCause(originalErr).
//		Build()
package errors
