// Package errors provides the classified error primitives used across doclinks.
//
// Errors carry a category, a severity and free-form context so the CLI can
// pick an exit code and a log level without string matching.
//
//   - ErrorCategory: broad classification (config, filesystem, network, ...)
//   - ErrorSeverity: impact level (fatal, error, warning)
//   - ClassifiedError: structured error with category, severity and context
//   - ErrorBuilder: fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and user-facing formatting
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryFileSystem, "read document").
//		Fatal().
//		WithContext("path", path).
//		Build()
package errors
