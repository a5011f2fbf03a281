// Package compress provides compressed sub-record framing for packd layouts.
//
// A Block lays out its inner value as
//
//	[raw length][packed length][packed bytes]
//
// where packed length 0 means the bytes are stored uncompressed. Blocks that
// do not shrink by at least 10% are stored raw.
package compress

import (
	"errors"
	"fmt"
)

// ID identifies an algorithm on the wire.
type ID uint8

const (
	IDNone   ID = 0
	IDLZ4    ID = 1
	IDZstd   ID = 2
	IDS2     ID = 3
	IDSnappy ID = 4
	IDZlib   ID = 5
)

// ErrUnknownAlgorithm is returned by Lookup for an unregistered ID.
var ErrUnknownAlgorithm = errors.New("compress: unknown algorithm")

// sizeError reports a packed stream whose own size header disagrees with the
// declared raw length. Block turns it into a *packd.LengthError.
type sizeError struct{ got int }

func (e *sizeError) Error() string {
	return fmt.Sprintf("compress: stream decodes to %d bytes", e.got)
}

// Algorithm is a block compressor. Compress may return an empty result for
// incompressible input. Decompress receives the expected raw length and never
// produces more than rawLen+1 bytes.
type Algorithm interface {
	ID() ID
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, rawLen int) ([]byte, error)
}

// Algorithms.
var (
	None   Algorithm = none{}
	LZ4    Algorithm = lz4Block{}
	Zstd   Algorithm = zstdBlock{}
	S2     Algorithm = s2Block{}
	Snappy Algorithm = snappyBlock{}
	Zlib   Algorithm = zlibBlock{}
)

var byID = map[ID]Algorithm{
	IDNone:   None,
	IDLZ4:    LZ4,
	IDZstd:   Zstd,
	IDS2:     S2,
	IDSnappy: Snappy,
	IDZlib:   Zlib,
}

// Lookup returns the algorithm registered for id.
func Lookup(id ID) (Algorithm, error) {
	if a, ok := byID[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, id)
}

type none struct{}

func (none) ID() ID                                       { return IDNone }
func (none) Name() string                                 { return "none" }
func (none) Compress([]byte) ([]byte, error)              { return nil, nil }
func (none) Decompress(src []byte, _ int) ([]byte, error) { return src, nil }
