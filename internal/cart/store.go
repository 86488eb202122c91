package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hookx/internal/models"
	"github.com/desertthunder/hookx/internal/shared"
)

// StorageKey is the key holding the persisted cart. Its name predates hookx and must not change.
const StorageKey = "cart"

// Snapshot is a point-in-time view of the cart with its derived aggregates.
type Snapshot struct {
	Items      []models.CartItem `json:"items" yaml:"items"`
	ItemCount  int               `json:"itemCount" yaml:"itemCount"`
	TotalPrice float64           `json:"totalPrice" yaml:"totalPrice"`
}

// Options configures a [Store].
type Options struct {
	Logger *log.Logger
}

// Store is the session's cart.
type Store struct {
	mu     sync.Mutex
	items  []models.CartItem
	logger *log.Logger
	writer *writer
}

// New creates a Store hydrated from kv and starts its background writer.
//
// Hydration never fails: unreadable or malformed data is logged and replaced by an empty cart.
func New(kv models.KeyValueStore, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	logger := shared.WithLogger(opts.Logger, "component", "cart")

	s := &Store{
		items:  hydrate(kv, logger),
		logger: logger,
	}
	s.writer = newWriter(kv, StorageKey, logger)
	return s
}

func hydrate(kv models.KeyValueStore, logger *log.Logger) []models.CartItem {
	raw, found, err := kv.Get(StorageKey)
	if err != nil {
		logger.Warn("starting with empty cart", "error", fmt.Errorf("%w: %v", shared.ErrPersistenceRead, err))
		return []models.CartItem{}
	}

	decoded := shared.DecodeJSON[[]models.CartItem](raw, found)
	switch decoded.Status {
	case shared.DecodeAbsent:
		return []models.CartItem{}
	case shared.DecodeMalformed:
		logger.Warn("starting with empty cart", "error", decoded.Err)
		return []models.CartItem{}
	}

	items := make([]models.CartItem, 0, len(decoded.Value))
	seen := make(map[models.CartKey]struct{}, len(decoded.Value))
	for _, item := range decoded.Value {
		if err := item.Validate(); err != nil {
			logger.Warn("dropping persisted cart item", "key", item.Key(), "error", err)
			continue
		}
		if _, dup := seen[item.Key()]; dup {
			logger.Warn("dropping duplicate persisted cart item", "key", item.Key())
			continue
		}
		seen[item.Key()] = struct{}{}
		items = append(items, item)
	}

	logger.Debug("cart hydrated", "items", len(items))
	return items
}

// Add appends item unless an item with the same (hook id, license type) is already in the cart,
// in which case the cart is left untouched. It reports whether the item was inserted.
//
// Items that fail [models.CartItem.Validate] are rejected with [shared.ErrInvalidInput].
func (s *Store) Add(item models.CartItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(item.Key()) >= 0 {
		s.logger.Debug("duplicate cart item ignored", "key", item.Key())
		return false, nil
	}

	s.items = append(s.items, item)
	s.logger.Debug("cart item added", "key", item.Key(), "price", item.Price)
	s.persistLocked()
	return true, nil
}

// Remove deletes the item matching the key, if any, and reports whether one was removed.
func (s *Store) Remove(hookID string, license models.LicenseType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := models.CartKey{HookID: hookID, LicenseType: license}
	i := s.indexLocked(key)
	if i < 0 {
		return false
	}

	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.logger.Debug("cart item removed", "key", key)
	s.persistLocked()
	return true
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []models.CartItem{}
	s.logger.Debug("cart cleared")
	s.persistLocked()
}

// Contains reports whether an item with the key is in the cart.
func (s *Store) Contains(hookID string, license models.LicenseType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(models.CartKey{HookID: hookID, LicenseType: license}) >= 0
}

// Items returns a copy of the cart in insertion order. It is never nil.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// ItemCount is the number of items in the cart.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalPrice is the sum of item prices, without rounding.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalLocked(s.items)
}

// Snapshot returns the items and aggregates read under a single lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:      s.copyLocked(),
		ItemCount:  len(s.items),
		TotalPrice: totalLocked(s.items),
	}
}

// Flush blocks until every snapshot queued so far has been written (or failed).
func (s *Store) Flush() {
	s.writer.flush()
}

// Close flushes pending writes and stops the background writer.
// Mutations after Close are persisted synchronously.
func (s *Store) Close() error {
	s.writer.close()
	return nil
}

func (s *Store) indexLocked(key models.CartKey) int {
	for i, item := range s.items {
		if item.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) copyLocked() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// persistLocked queues the current snapshot. Called with s.mu held so snapshots are queued in
// mutation order.
func (s *Store) persistLocked() {
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Warn("cart snapshot not encoded", "error", err)
		return
	}
	s.writer.enqueue(string(payload))
}

func totalLocked(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price
	}
	return total
}
