// Package logging is a thin wrapper over the standard log package,
// following a plain log.Printf("WARNING: ...") idiom rather than a
// structured-logging library.
package logging

import "log"

// Logger writes prefixed diagnostic lines to the process's default logger.
type Logger struct {
	component string
}

// New returns a Logger that prefixes every line with component.
func New(component string) *Logger {
	return &Logger{component: component}
}

// Warnf logs a warning. Warnings never abort the caller — every warning
// site in this repo treats logging failures as non-fatal.
func (l *Logger) Warnf(format string, args ...any) {
	log.Printf("WARNING: "+l.prefixed(format), args...)
}

// Infof logs an informational line.
func (l *Logger) Infof(format string, args ...any) {
	log.Printf(l.prefixed(format), args...)
}

func (l *Logger) prefixed(format string) string {
	if l.component == "" {
		return format
	}
	return l.component + ": " + format
}
