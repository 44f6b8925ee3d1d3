// Package indexer builds and holds the in-memory logo index.
//
// # Contract
//
// The Index maps a TickerKey to the slash-separated path, relative to the
// logos root, of the single logo selected for it. Build walks the root once
// and picks the classify.Best candidate per key; Offer applies the same
// ordering to incremental updates so that the stored path is always the best
// one seen so far.
//
// Thread safety: all Index methods are safe for concurrent use via sync.RWMutex.
//
// # Methods
//
//	Get(key types.TickerKey) (string, bool)
//	  - Returns the stored path. Does not touch the filesystem.
//
//	Reset(entries map[types.TickerKey]string)
//	  - Replaces the whole index. Used once at startup.
//
//	Offer(key types.TickerKey, path, stale string) string
//	  - Stores path unless the current entry ranks ahead of it.
//	  - A current entry equal to stale is always replaced.
//
//	All() []Entry
//	  - Returns a copy of every entry.
//
//	Count() int
//	  - Returns the number of keys.
//
// # Scanning
//
// Scan is shared by Build and by the lookup fallback. It yields candidates
// in filesystem enumeration order and treats a missing root as empty.
//
// # Callback
//
// New accepts an optional OnChange callback fired after Reset ("reset") and
// after an Offer that changed the index ("upsert").
package indexer
