package store

// Hooks receive high-signal store events. Implementations MUST be cheap and
// non-blocking; the store calls them on the read and write paths. Wrap a slow
// implementation with hooks/async.
type Hooks interface {
	// A record or batch entry failed validation and was deleted.
	// reason is "envelope" or "value_decode".
	SelfHeal(storageKey, reason string)

	// A batch entry was unusable and GetBatch fell back to single records.
	BatchRejected(namespace string, requested int, reason string)

	// The provider dropped a write (ok=false on Set).
	ProviderSetRejected(storageKey string, isBatch bool)
}

// NopHooks is the default.
type NopHooks struct{}

func (NopHooks) SelfHeal(string, string)           {}
func (NopHooks) BatchRejected(string, int, string) {}
func (NopHooks) ProviderSetRejected(string, bool)  {}

const (
	reasonEnvelope    = "envelope"
	reasonValueDecode = "value_decode"
)
