package compress

import (
	"bytes"
	"io"
	"math"
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

var zstdEncoderPool sync.Pool

func getZstdEncoder() (*zstd.Encoder, error) {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder), nil
	}
	return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

type zstdBlock struct{}

func (zstdBlock) ID() ID       { return IDZstd }
func (zstdBlock) Name() string { return "zstd" }

func (zstdBlock) Compress(src []byte) ([]byte, error) {
	enc, err := getZstdEncoder()
	if err != nil {
		return nil, err
	}
	defer zstdEncoderPool.Put(enc)
	return enc.EncodeAll(src, nil), nil
}

// Decompress checks the frame's declared content size first, then streams
// at most rawLen+1 bytes through a decoder whose window is capped by rawLen,
// so a forged stream cannot inflate past the declared size.
func (zstdBlock) Decompress(src []byte, rawLen int) ([]byte, error) {
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return nil, err
	}
	if h.HasFCS && h.FrameContentSize != uint64(rawLen) {
		return nil, &sizeError{got: int(min(h.FrameContentSize, math.MaxInt))}
	}
	window := uint64(min(max(rawLen, zstd.MinWindowSize), zstd.MaxWindowSize))
	dec, err := zstd.NewReader(bytes.NewReader(src),
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxWindow(window),
	)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return readBounded(dec, rawLen)
}

type lz4Block struct{}

func (lz4Block) ID() ID       { return IDLZ4 }
func (lz4Block) Name() string { return "lz4" }

func (lz4Block) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := lz4.CompressBlock(src, dst, nil)
	if err != nil {
		return nil, err
	}
	// n == 0: incompressible
	return dst[:n], nil
}

func (lz4Block) Decompress(src []byte, rawLen int) ([]byte, error) {
	dst := make([]byte, rawLen)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

type s2Block struct{}

func (s2Block) ID() ID       { return IDS2 }
func (s2Block) Name() string { return "s2" }

func (s2Block) Compress(src []byte) ([]byte, error) { return s2.Encode(nil, src), nil }

func (s2Block) Decompress(src []byte, rawLen int) ([]byte, error) {
	n, err := s2.DecodedLen(src)
	if err != nil {
		return nil, err
	}
	if n != rawLen {
		return nil, &sizeError{got: n}
	}
	return s2.Decode(make([]byte, rawLen), src)
}

type snappyBlock struct{}

func (snappyBlock) ID() ID       { return IDSnappy }
func (snappyBlock) Name() string { return "snappy" }

func (snappyBlock) Compress(src []byte) ([]byte, error) { return snappy.Encode(nil, src), nil }

func (snappyBlock) Decompress(src []byte, rawLen int) ([]byte, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return nil, err
	}
	if n != rawLen {
		return nil, &sizeError{got: n}
	}
	return snappy.Decode(make([]byte, rawLen), src)
}

type zlibBlock struct{}

func (zlibBlock) ID() ID       { return IDZlib }
func (zlibBlock) Name() string { return "zlib" }

func (zlibBlock) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibBlock) Decompress(src []byte, rawLen int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return readBounded(zr, rawLen)
}

// readBounded reads at most rawLen+1 bytes, so an oversized stream shows up
// as a length mismatch instead of an unbounded allocation.
func readBounded(r io.Reader, rawLen int) ([]byte, error) {
	out := bytes.NewBuffer(make([]byte, 0, rawLen))
	if _, err := io.Copy(out, io.LimitReader(r, int64(rawLen)+1)); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
