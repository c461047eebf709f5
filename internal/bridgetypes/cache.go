package bridgetypes

import "sync"

// ChainCache is the single-writer/multiple-reader store keyed by
// EVM-chain-prefix described in spec §5. Both LastCheckedBlockCache and
// LatestValsetCache embed it; created at first use, dropped at process exit.
type chainCache[V any] struct {
	mu    sync.RWMutex
	byKey map[string]V
}

func newChainCache[V any]() *chainCache[V] {
	return &chainCache[V]{byKey: make(map[string]V)}
}

func (c *chainCache[V]) get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.byKey[key]
	return v, ok
}

func (c *chainCache[V]) set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = v
}

// LastCheckedBlockEntry is (last_scanned_block, last_checked_block) — the
// most recent block height scanned, and the EVM block at which the oracle's
// last_event_nonce was actually found, used to bound history resync.
type LastCheckedBlockEntry struct {
	LastScannedBlock uint64
	LastCheckedBlock *uint64 // nil before resync completes
}

// LastCheckedBlockCache is the oracle's per-EVM-chain resync cache.
type LastCheckedBlockCache struct {
	inner *chainCache[LastCheckedBlockEntry]
}

func NewLastCheckedBlockCache() *LastCheckedBlockCache {
	return &LastCheckedBlockCache{inner: newChainCache[LastCheckedBlockEntry]()}
}

func (c *LastCheckedBlockCache) Get(evmChainPrefix string) (LastCheckedBlockEntry, bool) {
	return c.inner.get(evmChainPrefix)
}

func (c *LastCheckedBlockCache) Set(evmChainPrefix string, entry LastCheckedBlockEntry) {
	c.inner.set(evmChainPrefix, entry)
}

// Reset forces a full rescan next iteration — used when the oracle observes
// a non-contiguous event nonce error from the EVM node mid-resync.
func (c *LastCheckedBlockCache) Reset(evmChainPrefix string) {
	c.inner.set(evmChainPrefix, LastCheckedBlockEntry{})
}

// LatestValsetEntry is (last_scanned_block, latest Valset found so far).
type LatestValsetEntry struct {
	LastScannedBlock uint64
	Valset           *Valset
}

// LatestValsetCache avoids a full-history scan on every relayer iteration by
// remembering the most recently found ValsetUpdated event per EVM chain.
type LatestValsetCache struct {
	inner *chainCache[LatestValsetEntry]
}

func NewLatestValsetCache() *LatestValsetCache {
	return &LatestValsetCache{inner: newChainCache[LatestValsetEntry]()}
}

func (c *LatestValsetCache) Get(evmChainPrefix string) (LatestValsetEntry, bool) {
	return c.inner.get(evmChainPrefix)
}

func (c *LatestValsetCache) Set(evmChainPrefix string, entry LatestValsetEntry) {
	c.inner.set(evmChainPrefix, entry)
}

// Invalidate drops any cached valset, forcing the next lookup to rescan from
// the chain tip. Called after a successful ValsetUpdated relay.
func (c *LatestValsetCache) Invalidate(evmChainPrefix string) {
	c.inner.set(evmChainPrefix, LatestValsetEntry{})
}
