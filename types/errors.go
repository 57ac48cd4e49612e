package types

import "errors"

// Error kinds shared by the scorer and the search engine
var (
	// ErrShapeMismatch is returned when two patches of different shape are compared
	ErrShapeMismatch = errors.New("patch shapes differ")
	// ErrDecodeFailure marks a candidate file that could not be decoded as an image
	ErrDecodeFailure = errors.New("cannot decode image")
	// ErrInvalidReference marks a reference patch with zero area
	ErrInvalidReference = errors.New("invalid reference patch")
	// ErrInaccessibleDirectory marks a search root that is missing or unreadable
	ErrInaccessibleDirectory = errors.New("search directory is not accessible")
)
