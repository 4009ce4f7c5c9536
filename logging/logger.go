// Package logging defines the small logger contract every other package
// in this module depends on, and a default implementation wired to
// logrus.
//
// Constructing a logger for the write interposer is cyclic on its face:
// the logger needs a non-interposed write so it doesn't recurse through
// its own interposed write path, and the symbol resolver needs the
// logger to report its own failures. This package breaks the cycle: the
// default logger's direct-write path (direct_unix.go) never goes
// through internal/symbols.Resolver, it is a one-shot lookup obtained at
// construction time.
package logging

// Logger is the logging contract, shaped so any *log.Logger already
// satisfies it.
type Logger interface {
	Println(v ...interface{})
	Printf(format string, v ...interface{})
}

// Fields attaches structured context to a log line. A nil Fields is
// valid and logs with no extra context.
type Fields map[string]interface{}

// FieldLogger is implemented by loggers that support structured fields,
// such as the default logrus-backed logger. Callers that only have a
// Logger should type-assert before using WithFields.
type FieldLogger interface {
	Logger
	WithFields(Fields) Logger
}

// discard implements Logger and drops everything; used as a safe default
// so construction never requires nil-checks at call sites.
type discard struct{}

func (discard) Println(v ...interface{})          {}
func (discard) Printf(format string, v ...interface{}) {}

// Discard is a Logger that drops every message.
var Discard Logger = discard{}
