package indexer

import (
	"sync"

	"github.com/tickerlogos/tickerlogos/internal/classify"
	"github.com/tickerlogos/tickerlogos/internal/types"
)

// IndexEvent represents a change to the logo index.
type IndexEvent struct {
	Type string // "upsert" or "reset"
	Key  types.TickerKey
	Path string
	Size int // number of keys after the change
}

// OnChangeFunc is called when the index changes.
type OnChangeFunc func(event IndexEvent)

// Index is a concurrent-safe map from TickerKey to the relative path of the
// selected logo.
type Index struct {
	mu       sync.RWMutex
	byKey    map[types.TickerKey]string
	onChange OnChangeFunc
}

// New creates an empty Index with an optional change callback.
func New(onChange OnChangeFunc) *Index {
	return &Index{
		byKey:    make(map[types.TickerKey]string),
		onChange: onChange,
	}
}

// Get returns the path stored for key.
func (idx *Index) Get(key types.TickerKey) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.byKey[key]
	return p, ok
}

// Reset replaces the whole index with entries. The map is copied.
func (idx *Index) Reset(entries map[types.TickerKey]string) {
	fresh := make(map[types.TickerKey]string, len(entries))
	for k, p := range entries {
		fresh[k] = p
	}

	idx.mu.Lock()
	idx.byKey = fresh
	size := len(fresh)
	idx.mu.Unlock()

	indexKeys.Set(float64(size))
	if idx.onChange != nil {
		idx.onChange(IndexEvent{Type: "reset", Size: size})
	}
}

// Offer records path for key unless the current entry ranks ahead of it
// under classify.Compare. A current entry equal to stale is replaced
// unconditionally; callers pass the path they found missing on disk.
// Offer returns the path stored for key afterwards.
func (idx *Index) Offer(key types.TickerKey, path, stale string) string {
	idx.mu.Lock()
	current, exists := idx.byKey[key]
	winner := path
	if exists && current != stale && current != path {
		if classify.Compare(classify.NewCandidate(current), classify.NewCandidate(path)) <= 0 {
			winner = current
		}
	}
	changed := !exists || current != winner
	if changed {
		idx.byKey[key] = winner
	}
	size := len(idx.byKey)
	idx.mu.Unlock()

	if changed {
		indexKeys.Set(float64(size))
		if idx.onChange != nil {
			idx.onChange(IndexEvent{Type: "upsert", Key: key, Path: winner, Size: size})
		}
	}
	return winner
}

// Entry is one key and its selected path.
type Entry struct {
	Key  types.TickerKey `json:"key"`
	Path string          `json:"path"`
}

// All returns a copy of every entry, in no particular order.
func (idx *Index) All() []Entry {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	result := make([]Entry, 0, len(idx.byKey))
	for k, p := range idx.byKey {
		result = append(result, Entry{Key: k, Path: p})
	}
	return result
}

// Count returns the number of indexed keys.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byKey)
}
