//go:build !unix

package ngramfile

import "os"

// ReadFile loads and validates the document stored at path.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
