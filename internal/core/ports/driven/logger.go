package driven

// Logger receives diagnostics from core services.
// Implementations must be safe for concurrent use.
type Logger interface {
	// Debug records detail useful when tracing a single mapping.
	Debug(format string, args ...any)

	// Warn records a recoverable problem.
	Warn(format string, args ...any)

	// Error records a failure together with its cause.
	Error(err error, format string, args ...any)
}
