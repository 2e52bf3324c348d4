package filevalidator

import (
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// Sniffer detects a content type from the leading bytes of a file.
type Sniffer interface {
	Sniff(r io.Reader) (string, error)
}

// SnifferFunc adapts a function to the Sniffer interface.
type SnifferFunc func(r io.Reader) (string, error)

// Sniff calls f(r).
func (f SnifferFunc) Sniff(r io.Reader) (string, error) {
	return f(r)
}

// MimetypeSniffer detects content types by magic numbers.
type MimetypeSniffer struct{}

// Sniff returns the base content type of r, without parameters.
func (MimetypeSniffer) Sniff(r io.Reader) (string, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	return BaseType(m.String()), nil
}
