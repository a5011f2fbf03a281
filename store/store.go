// Package store keeps packed records in a provider.Provider. Each value is
// encoded with a codec.Codec, optionally compressed, and sealed in a
// checksummed envelope (see internal/wire). Entries that fail validation are
// deleted on read and reported as misses.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/packd"
	"github.com/unkn0wn-root/packd/codec"
	"github.com/unkn0wn-root/packd/compress"
	"github.com/unkn0wn-root/packd/internal/util"
	"github.com/unkn0wn-root/packd/internal/wire"
	pr "github.com/unkn0wn-root/packd/provider"
)

const defaultTTL = 10 * time.Minute

// CostFunc computes the provider cost of an envelope. count is the number of
// records it holds.
type CostFunc func(key string, raw []byte, count int) int64

// Store is a typed record store over a byte provider.
type Store[T any] interface {
	Enabled() bool
	Close(ctx context.Context) error

	Get(ctx context.Context, key string) (v T, ok bool, err error)
	Put(ctx context.Context, key string, v T, ttl time.Duration) error
	Del(ctx context.Context, key string) error

	// Batches are stored under one entry keyed by the set of record keys.
	// GetBatch falls back to single records for keys the batch lacks.
	GetBatch(ctx context.Context, keys []string) (values map[string]T, missing []string, err error)
	PutBatch(ctx context.Context, items map[string]T, ttl time.Duration) error
}

// Options configure a Store. Namespace, Provider and Codec are required.
type Options[T any] struct {
	Namespace string
	Provider  pr.Provider
	Codec     codec.Codec[T]

	Logger      packd.Logger       // nil => packd.NopLogger
	DefaultTTL  time.Duration      // 0 => 10m
	Compression compress.Algorithm // nil => compress.None
	MaxBytes    int                // decode limit for envelope sizes; 0 => unlimited
	ComputeCost CostFunc           // nil => envelope length
	Hooks       Hooks              // nil => NopHooks
	Disabled    bool
}

type store[T any] struct {
	ns       string
	provider pr.Provider
	codec    codec.Codec[T]
	log      packd.Logger
	ttl      time.Duration
	algo     compress.Algorithm
	opts     packd.Options
	cost     CostFunc
	hooks    Hooks
	enabled  bool
}

var _ Store[struct{}] = (*store[struct{}])(nil)

func New[T any](opts Options[T]) (Store[T], error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	if opts.Codec == nil {
		return nil, ErrNoCodec
	}
	if opts.Namespace == "" {
		return nil, ErrNoNamespace
	}

	s := &store[T]{
		ns:       opts.Namespace,
		provider: opts.Provider,
		codec:    opts.Codec,
		enabled:  !opts.Disabled,
		cost:     opts.ComputeCost,
	}
	s.log = coalesce[packd.Logger](opts.Logger, packd.NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.ttl = coalesce(opts.DefaultTTL, defaultTTL)
	s.algo = coalesce[compress.Algorithm](opts.Compression, compress.None)
	s.opts = packd.Options{Logger: s.log, MaxBytes: opts.MaxBytes}
	if s.cost == nil {
		s.cost = func(_ string, raw []byte, _ int) int64 { return int64(len(raw)) }
	}
	return s, nil
}

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func (s *store[T]) Enabled() bool { return s.enabled }

func (s *store[T]) Close(ctx context.Context) error { return s.provider.Close(ctx) }

func (s *store[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	if !s.enabled {
		return zero, false, nil
	}
	k := util.RecordKey(s.ns, key)
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil || !ok {
		return zero, false, err
	}
	payload, err := wire.DecodeRecord(raw, s.opts)
	if err != nil {
		s.heal(ctx, k, reasonEnvelope, err)
		return zero, false, nil
	}
	v, err := s.codec.Decode(payload)
	if err != nil {
		s.heal(ctx, k, reasonValueDecode, err)
		return zero, false, nil
	}
	return v, true, nil
}

func (s *store[T]) Put(ctx context.Context, key string, v T, ttl time.Duration) error {
	if !s.enabled {
		return nil
	}
	payload, err := s.codec.Encode(v)
	if err != nil {
		return err
	}
	raw, err := wire.EncodeRecord(s.algo, payload)
	if err != nil {
		return err
	}
	return s.set(ctx, util.RecordKey(s.ns, key), raw, 1, false, ttl)
}

func (s *store[T]) Del(ctx context.Context, key string) error {
	if !s.enabled {
		return nil
	}
	return s.provider.Del(ctx, util.RecordKey(s.ns, key))
}

func (s *store[T]) GetBatch(ctx context.Context, keys []string) (map[string]T, []string, error) {
	out := make(map[string]T, len(keys))
	if !s.enabled {
		return out, append([]string(nil), keys...), nil
	}
	if len(keys) == 0 {
		return out, nil, nil
	}

	bk := util.BatchKey(s.ns, keys)
	raw, ok, err := s.provider.Get(ctx, bk)
	if err != nil {
		return nil, nil, err
	}
	if ok {
		if items, err := wire.DecodeBatch(raw, s.opts); err != nil {
			s.heal(ctx, bk, reasonEnvelope, err)
			s.hooks.BatchRejected(s.ns, len(keys), reasonEnvelope)
		} else {
			for _, it := range items {
				v, err := s.codec.Decode(it.Payload)
				if err != nil {
					s.heal(ctx, bk, reasonValueDecode, err)
					s.hooks.BatchRejected(s.ns, len(keys), reasonValueDecode)
					clear(out)
					break
				}
				out[it.Key] = v
			}
		}
	}

	var missing []string
	for _, k := range keys {
		if _, hit := out[k]; hit {
			continue
		}
		v, hit, err := s.Get(ctx, k)
		if err != nil {
			return nil, nil, err
		}
		if hit {
			out[k] = v
			continue
		}
		missing = append(missing, k)
	}
	return out, missing, nil
}

func (s *store[T]) PutBatch(ctx context.Context, items map[string]T, ttl time.Duration) error {
	if !s.enabled || len(items) == 0 {
		return nil
	}
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	keys = util.SortedUnique(keys)

	batch := make([]wire.BatchItem, 0, len(keys))
	for _, k := range keys {
		payload, err := s.codec.Encode(items[k])
		if err != nil {
			return fmt.Errorf("packd: encode %q: %w", k, err)
		}
		batch = append(batch, wire.BatchItem{Key: k, Payload: payload})
	}
	raw, err := wire.EncodeBatch(s.algo, batch)
	if err != nil {
		return err
	}
	return s.set(ctx, util.BatchKey(s.ns, keys), raw, len(batch), true, ttl)
}

func (s *store[T]) set(ctx context.Context, k string, raw []byte, count int, batch bool, ttl time.Duration) error {
	if ttl == 0 {
		ttl = s.ttl
	}
	ok, err := s.provider.Set(ctx, k, raw, s.cost(k, raw, count), ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Debug("write rejected by provider", packd.Fields{"key": k, "bytes": len(raw)})
		s.hooks.ProviderSetRejected(k, batch)
	}
	return nil
}

// heal drops an entry that failed validation.
func (s *store[T]) heal(ctx context.Context, k, reason string, cause error) {
	s.hooks.SelfHeal(k, reason)
	fields := packd.Fields{"key": k, "reason": reason, "error": cause.Error()}
	if err := s.provider.Del(ctx, k); err != nil {
		fields["delError"] = err.Error()
	}
	s.log.Warn("dropped corrupt entry", fields)
}
