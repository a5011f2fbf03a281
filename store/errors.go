package store

import "errors"

// Configuration errors returned by New.
var (
	ErrNoProvider  = errors.New("packd: provider is required")
	ErrNoCodec     = errors.New("packd: codec is required")
	ErrNoNamespace = errors.New("packd: namespace is required")
)
