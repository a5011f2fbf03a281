// Package sloghook logs store hook events through log/slog, with sampling and
// key redaction.
package sloghook

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	"github.com/unkn0wn-root/packd/store"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery    uint64
	BatchRejectEvery uint64
	Redact           func(string) string // nil => 16 hex digits of xxhash64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr    atomic.Uint64
	batchRejectCtr atomic.Uint64
}

var _ store.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(k))
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Warn("packd.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) BatchRejected(ns string, requested int, reason string) {
	if h.l == nil || !sample(h.opts.BatchRejectEvery, &h.batchRejectCtr) {
		return
	}
	h.l.Info("packd.batch_rejected",
		"ns", ns,
		"requested", requested,
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string, isBatch bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("packd.provider_set_rejected",
		"key", h.redact(storageKey),
		"is_batch", isBatch)
}
