package ngramfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// Decode reads a whole document from r.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}

// Unmarshal parses and validates a document.
func Unmarshal(data []byte) (Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc == nil {
		doc = Document{}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
