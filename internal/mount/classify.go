package mount

import (
	"strings"

	"github.com/padll/iointerpose/logging"
)

// Classifier extracts a mount-point class from a pathname.
type Classifier struct {
	enabled      bool
	remotePrefix string
	log          logging.Logger
}

// NewClassifier builds a Classifier. When enabled is false, Extract
// always returns None regardless of remotePrefix.
func NewClassifier(enabled bool, remotePrefix string, log logging.Logger) *Classifier {
	if log == nil {
		log = logging.Discard
	}
	return &Classifier{enabled: enabled, remotePrefix: remotePrefix, log: log}
}

// Extract classifies path. Matching is substring search, not prefix
// match, and this is a known sharp edge carried over deliberately
// ("/foo/tmp/bar" matches remote="/tmp"). An unmatched path with
// differentiation enabled logs a diagnostic and returns None; the
// caller still performs the native call.
func (c *Classifier) Extract(path string) Class {
	if !c.enabled {
		return None
	}
	if strings.Contains(path, c.remotePrefix) {
		return Remote
	}
	c.log.Printf("mount: path %q did not match configured remote mount-point %q; classifying as none", path, c.remotePrefix)
	return None
}
