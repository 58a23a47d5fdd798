package llmstream

import (
	"fmt"
	"sync"
)

// Normalizer maps decoded provider-specific JSON values onto CanonicalEvents.
// Implementations live in the providers/ subpackages, one per wire shape,
// keeping each provider's quirks isolated and independently testable.
//
// Normalize returns nil for values that carry no event-worthy content (the
// Grok path emits nil for pure-metadata values). It never returns an error:
// partially-missing shapes degrade to defaults per the library's error
// policy.
type Normalizer interface {
	// Provider returns the wire shape this normalizer understands.
	Provider() ProviderID

	// Normalize converts one decoded JSON value into zero or one event.
	Normalize(raw []byte) *CanonicalEvent

	// Reset clears any cross-event state (e.g. Grok's snapshot differ).
	Reset()
}

// NormalizerFactory constructs a fresh Normalizer. Normalizers hold
// per-stream state, so every session needs its own instance.
type NormalizerFactory func() Normalizer

var (
	normalizerMu       sync.RWMutex
	normalizerRegistry = make(map[ProviderID]NormalizerFactory)
)

// RegisterNormalizer makes a provider's normalizer constructible by ID.
// The providers/ subpackages self-register from their init functions, so a
// blank import is enough to enable a provider:
//
//	import _ "github.com/haowjy/meridian-stream-go/providers/grok"
func RegisterNormalizer(id ProviderID, factory NormalizerFactory) {
	normalizerMu.Lock()
	defer normalizerMu.Unlock()
	normalizerRegistry[id] = factory
}

// NewNormalizer constructs a normalizer for the given provider ID.
// Returns ErrUnknownProvider when nothing is registered under the ID.
func NewNormalizer(id ProviderID) (Normalizer, error) {
	normalizerMu.RLock()
	factory, ok := normalizerRegistry[id]
	normalizerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no normalizer registered for provider '%s': %w", id, ErrUnknownProvider)
	}
	return factory(), nil
}
