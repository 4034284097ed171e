package ngramfile

import "errors"

var (
	// ErrMalformed reports a document that is not a valid model encoding.
	ErrMalformed = errors.New("ngramfile: malformed document")
	// ErrDelimiterCollision reports a token that contains KeyDelimiter and
	// so cannot be encoded into a key that decodes back to the same context.
	ErrDelimiterCollision = errors.New("ngramfile: token contains key delimiter")
)
