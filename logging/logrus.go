package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// stderr is overridden by direct_unix.go to a direct unix.Write(2, ...)
// writer; platforms without that build tag fall back to os.Stderr.
var stderr io.Writer = os.Stderr

// logrusLogger adapts *logrus.Entry to Logger/FieldLogger. This is the
// default Logger handed to every component that does not receive an
// explicit override.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrus builds the default structured logger, writing through the
// direct (non-interposed) stderr path described in logger.go's package
// comment.
func NewLogrus() FieldLogger {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetOutput(stderr)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Println(v ...interface{}) {
	l.entry.Println(v...)
}

func (l *logrusLogger) Printf(format string, v ...interface{}) {
	l.entry.Printf(format, v...)
}

func (l *logrusLogger) WithFields(f Fields) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(f))}
}
