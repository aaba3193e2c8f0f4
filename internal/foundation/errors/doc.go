// Package errors provides the classified error primitives used across docsite.
//
// Every failure that can abort a page or a whole build is expressed as a
// ClassifiedError so the CLI can pick an exit code and the logger can attach
// structured context without string matching.
//
// Key features:
//   - ErrorCategory: where the failure came from (config, content, render, ...)
//   - ErrorSeverity: impact level (fatal, error, warning, info)
//   - RetryStrategy: whether repeating the operation can help
//   - ErrorBuilder: fluent construction with context and cause
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.ContentError("page not found").
//		WithContext("slug", slug.String()).
//		WithCause(content.ErrPageNotFound).
//		Build()
package errors
