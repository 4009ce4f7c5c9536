package logging

import "testing"

func TestDiscardLoggerNeverPanics(t *testing.T) {
	Discard.Println("anything", 1, 2)
	Discard.Printf("fmt %d", 1)
}

func TestLogrusImplementsFieldLogger(t *testing.T) {
	var _ FieldLogger = NewLogrus()
}

func TestWithFieldsReturnsUsableLogger(t *testing.T) {
	l := NewLogrus()
	sub := l.WithFields(Fields{"op": "open"})
	sub.Printf("path=%s", "/tmp/x")
}
