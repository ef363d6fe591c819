// internal/domain/wishlist/engine.go
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/cart"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/infrastructure/storage"
	"github.com/your-org/storefront/internal/pkg/logger"
)

const (
	// DefaultKey is the storage key holding the serialized wishlist
	DefaultKey = "wishlist"

	defaultWriteTimeout = 5 * time.Second
)

// Engine owns the saved products of one storefront session, keyed by product
// id. Every mutation hands the full collection to a background writer.
type Engine struct {
	mu        sync.RWMutex
	entries   map[int]*Entry
	order     []int
	listeners []Listener
	log       logrus.FieldLogger
	now       func() time.Time

	key          string
	writeTimeout time.Duration
	onWrite      func(error)
	persist      *persister
}

// Option configures an Engine
type Option func(*Engine)

// WithListener registers l for wishlist events
func WithListener(l Listener) Option {
	return func(e *Engine) {
		if l != nil {
			e.listeners = append(e.listeners, l)
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock overrides time.Now for entry timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithKey sets the storage key (default "wishlist")
func WithKey(key string) Option {
	return func(e *Engine) {
		if key != "" {
			e.key = key
		}
	}
}

// WithWriteTimeout bounds each background storage write
func WithWriteTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.writeTimeout = d
		}
	}
}

// WithWriteObserver is called after every background write with its result
func WithWriteObserver(fn func(error)) Option {
	return func(e *Engine) {
		e.onWrite = fn
	}
}

// NewEngine loads the saved wishlist from store and starts the writer. A
// missing or unreadable snapshot starts an empty wishlist. A nil store keeps
// the wishlist in memory only.
func NewEngine(ctx context.Context, store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		entries:      make(map[int]*Entry),
		log:          logger.Discard(),
		now:          func() time.Time { return time.Now().UTC() },
		key:          DefaultKey,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	if store == nil {
		return e
	}

	e.load(ctx, store)
	e.persist = newPersister(store, e.key, e.writeTimeout, e.log, e.onWrite)

	return e
}

func (e *Engine) load(ctx context.Context, store storage.Store) {
	log := e.log.WithField("key", e.key)

	data, err := store.Get(ctx, e.key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Debug("no saved wishlist, starting empty")
		} else {
			log.WithError(err).Warn("failed to read saved wishlist, starting empty")
		}
		return
	}

	var saved []Entry
	if err := json.Unmarshal(data, &saved); err != nil {
		log.WithError(err).Warn("saved wishlist is malformed, starting empty")
		return
	}

	dropped := 0
	for i := range saved {
		entry := saved[i]
		if !validID(entry.ProductID) {
			dropped++
			continue
		}
		if _, dup := e.entries[entry.ProductID]; dup {
			dropped++
			continue
		}
		e.entries[entry.ProductID] = &entry
		e.order = append(e.order, entry.ProductID)
	}

	log.WithFields(logrus.Fields{
		"entries": len(e.order),
		"dropped": dropped,
	}).Info("wishlist loaded")
	e.emit(Event{Type: EventLoaded, Count: len(e.order)})
}

// AddEntry saves p. The bool is false when p was already present, in which
// case the existing entry is returned unchanged, or when p has no valid id.
func (e *Engine) AddEntry(p product.Product) (Entry, bool) {
	if !validID(p.ID) {
		return Entry{}, false
	}

	e.mu.Lock()
	if existing, ok := e.entries[p.ID]; ok {
		entry := existing.clone()
		e.mu.Unlock()
		return entry, false
	}
	entry, count := e.addLocked(p)
	e.saveLocked()
	e.mu.Unlock()

	e.log.WithField("product_id", p.ID).Debug("wishlist entry added")
	e.emit(Event{Type: EventEntryAdded, Entry: entry.clone(), Count: count})

	return entry, true
}

// RemoveEntry deletes the entry for productID and returns it. The bool is
// false when no such entry existed.
func (e *Engine) RemoveEntry(productID int) (Entry, bool) {
	e.mu.Lock()
	entry, ok := e.removeLocked(productID)
	if !ok {
		e.mu.Unlock()
		return Entry{}, false
	}
	count := len(e.order)
	e.saveLocked()
	e.mu.Unlock()

	e.log.WithField("product_id", productID).Debug("wishlist entry removed")
	e.emit(Event{Type: EventEntryRemoved, Entry: entry, Count: count})

	return entry, true
}

// Toggle removes p when present and adds it otherwise, as one step. It
// reports whether p is present afterwards.
func (e *Engine) Toggle(p product.Product) bool {
	if !validID(p.ID) {
		return false
	}

	e.mu.Lock()
	var ev Event
	if removed, ok := e.removeLocked(p.ID); ok {
		ev = Event{Type: EventEntryRemoved, Entry: removed, Count: len(e.order)}
	} else {
		entry, count := e.addLocked(p)
		ev = Event{Type: EventEntryAdded, Entry: entry, Count: count}
	}
	e.saveLocked()
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"product_id": p.ID,
		"event":      ev.Type,
	}).Debug("wishlist entry toggled")
	e.emit(ev)

	return ev.Type == EventEntryAdded
}

// IsPresent reports whether productID is saved
func (e *Engine) IsPresent(productID int) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.entries[productID]
	return ok
}

// Count returns the number of entries
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

// Clear empties the wishlist
func (e *Engine) Clear() {
	e.mu.Lock()
	n := len(e.order)
	e.entries = make(map[int]*Entry)
	e.order = nil
	e.saveLocked()
	e.mu.Unlock()

	e.log.WithField("entries", n).Debug("wishlist cleared")
	e.emit(Event{Type: EventCleared})
}

// Entries returns copies of all entries in insertion order
func (e *Engine) Entries() []Entry {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Entry, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.entries[id].clone())
	}
	return out
}

// Entry returns the entry for productID
func (e *Engine) Entry(productID int) (Entry, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	entry, ok := e.entries[productID]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Summary aggregates the current entries
func (e *Engine) Summary() Summary {
	entries := e.Entries()
	cutoff := e.now().Add(-recentWindow)

	summary := Summary{
		TotalItems:   len(entries),
		TotalValue:   decimal.Zero,
		AveragePrice: decimal.Zero,
	}
	for _, entry := range entries {
		summary.TotalValue = summary.TotalValue.Add(entry.Price)
		if entry.AddedAt.After(cutoff) {
			summary.RecentlyAdded++
		}
	}
	if summary.TotalItems > 0 {
		summary.AveragePrice = summary.TotalValue.Div(decimal.NewFromInt(int64(summary.TotalItems))).Round(2)
	}

	return summary
}

// MoveToCart adds the saved product to c and removes it from the wishlist.
// An empty size falls back to the product's first size. The bool is false
// when productID is not saved, in which case neither collection changes.
func (e *Engine) MoveToCart(productID int, size string, quantity int, c *cart.Engine) (cart.AddResult, bool) {
	entry, ok := e.RemoveEntry(productID)
	if !ok {
		return cart.AddResult{}, false
	}

	p := entry.Product()
	if size == "" {
		size = p.DefaultSize()
	}
	return c.AddLine(p, size, quantity), true
}

// Close writes the pending snapshot and stops the writer. Later mutations
// stay in memory.
func (e *Engine) Close(ctx context.Context) error {
	if e.persist == nil {
		return nil
	}
	return e.persist.close(ctx)
}

// saveLocked encodes the collection and queues it for writing. It runs under
// e.mu so snapshots are queued in mutation order.
func (e *Engine) saveLocked() {
	if e.persist == nil {
		return
	}

	out := make([]Entry, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, *e.entries[id])
	}
	data, err := json.Marshal(out)
	if err != nil {
		e.log.WithError(err).Error("failed to encode wishlist")
		return
	}
	e.persist.enqueue(data)
}

func (e *Engine) addLocked(p product.Product) (Entry, int) {
	entry := NewEntry(p, e.now())
	e.entries[p.ID] = &entry
	e.order = append(e.order, p.ID)
	return entry.clone(), len(e.order)
}

func (e *Engine) removeLocked(productID int) (Entry, bool) {
	entry, ok := e.entries[productID]
	if !ok {
		return Entry{}, false
	}
	delete(e.entries, productID)
	for i, id := range e.order {
		if id == productID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return *entry, true
}

// validID is the id rule shared by inserts and the startup load
func validID(id int) bool {
	return id > 0
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.OnWishlistEvent(ev)
	}
}
