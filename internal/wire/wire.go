// Package wire is the store's envelope format, itself a packd layout:
//
//	magic "PKDR" | ver(u8) | kind(u8) | algorithm(u8) | xxhash64(u64 le) |
//	body length(u32 le) | body
//
// The checksum covers the length field and the body. The body is a
// compress.Block with u32 le lengths around the kind-specific payload:
//
//	record: payload bytes
//	batch:  n(u32 le) | { keyLen(u16 le) | key | vlen(u32 le) | payload } * n
package wire

import (
	"errors"
	"fmt"

	"github.com/unkn0wn-root/packd"
	"github.com/unkn0wn-root/packd/compress"
)

const (
	version    byte = 1
	kindRecord byte = 1
	kindBatch  byte = 2
)

var (
	ErrCorrupt = errors.New("packd: corrupt entry")
	magic      = packd.Literal("PKDR")
)

// BatchItem is one keyed payload of a batch entry.
type BatchItem struct {
	Key     string
	Payload []byte
}

var errEmptyKey = errors.New("packd: empty key in batch")

var batchKey = packd.Map(packd.PrefixedBytes(packd.U16LE),
	func(b []byte) (string, error) {
		if len(b) == 0 {
			return "", errEmptyKey
		}
		return string(b), nil
	},
	func(s string) ([]byte, error) {
		if s == "" {
			return nil, errEmptyKey
		}
		return []byte(s), nil
	},
)

var batchItem = packd.Func(
	func(r *packd.Reader) (BatchItem, error) {
		var it BatchItem
		err := r.Decode(
			packd.Into(batchKey, &it.Key),
			packd.Into(packd.PrefixedBytes(packd.U32LE), &it.Payload),
		)
		return it, err
	},
	func(w *packd.Writer, it BatchItem) error {
		return w.Encode(
			packd.Bind(batchKey, it.Key),
			packd.Bind(packd.PrefixedBytes(packd.U32LE), it.Payload),
		)
	},
)

var batchItems = packd.LengthPrefixed(packd.U32LE, batchItem)

func sealed[T any](algo compress.Algorithm, inner packd.Codec[T]) packd.Codec[T] {
	return packd.XXHash64(packd.Sized(packd.U32LE, compress.Block(algo, packd.U32LE, inner)))
}

func encode[T any](kind byte, algo compress.Algorithm, inner packd.Codec[T], v T) ([]byte, error) {
	if algo == nil {
		algo = compress.None
	}
	w := packd.NewWriter(packd.Options{})
	err := w.Encode(
		magic.Put(),
		packd.Bind(packd.U8, version),
		packd.Bind(packd.U8, kind),
		packd.Bind(packd.U8, uint8(algo.ID())),
		packd.Bind(sealed(algo, inner), v),
	)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decode[T any](b []byte, kind byte, inner packd.Codec[T], opts packd.Options) (T, error) {
	var zero T
	var ver, k, id uint8
	r := packd.NewReader(b, opts)
	if err := r.Decode(
		magic.Expect(),
		packd.Into(packd.U8, &ver),
		packd.Into(packd.U8, &k),
		packd.Into(packd.U8, &id),
	); err != nil {
		return zero, corrupt(err)
	}
	if ver != version {
		return zero, fmt.Errorf("%w: version %d", ErrCorrupt, ver)
	}
	if k != kind {
		return zero, fmt.Errorf("%w: kind %d, want %d", ErrCorrupt, k, kind)
	}
	algo, err := compress.Lookup(compress.ID(id))
	if err != nil {
		return zero, corrupt(err)
	}
	v, err := sealed(algo, inner).Decode(r)
	if err != nil {
		return zero, corrupt(err)
	}
	if r.More() {
		return zero, fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, r.Len())
	}
	return v, nil
}

func corrupt(err error) error { return fmt.Errorf("%w: %w", ErrCorrupt, err) }

// EncodeRecord wraps one payload. A nil algo stores it uncompressed.
func EncodeRecord(algo compress.Algorithm, payload []byte) ([]byte, error) {
	return encode(kindRecord, algo, packd.OwnedBytes(), payload)
}

// DecodeRecord validates the envelope and returns an owned copy of the payload.
func DecodeRecord(b []byte, opts packd.Options) ([]byte, error) {
	return decode(b, kindRecord, packd.OwnedBytes(), opts)
}

// EncodeBatch wraps several keyed payloads in one entry. Keys must be
// non-empty and at most 0xFFFF bytes.
func EncodeBatch(algo compress.Algorithm, items []BatchItem) ([]byte, error) {
	return encode(kindBatch, algo, batchItems, items)
}

// DecodeBatch validates the envelope and returns its items in stored order.
func DecodeBatch(b []byte, opts packd.Options) ([]BatchItem, error) {
	return decode(b, kindBatch, batchItems, opts)
}
