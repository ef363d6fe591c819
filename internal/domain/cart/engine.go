// internal/domain/cart/engine.go
package cart

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/pkg/logger"
)

// Engine owns the cart lines for one storefront session. Every operation is
// total: missing keys and degenerate quantities resolve to no-ops or removals,
// never to errors.
type Engine struct {
	mu        sync.RWMutex
	lines     map[LineKey]*Line
	order     []LineKey
	listeners []Listener
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithListener registers l for cart events
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

// WithClock overrides time.Now for line timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an empty cart
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		lines: make(map[LineKey]*Line),
		log:   logger.Discard(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AddLine adds quantity of p in size. An existing line for the same key has
// its quantity increased; otherwise a new line is created from a snapshot of p.
// Quantities below 1 count as 1.
func (e *Engine) AddLine(p product.Product, size string, quantity int) AddResult {
	if quantity < 1 {
		quantity = 1
	}
	key := LineKey{ProductID: p.ID, Size: size}

	e.mu.Lock()
	var result AddResult
	var ev Event
	if existing, ok := e.lines[key]; ok {
		prev := existing.Quantity
		existing.Quantity += quantity
		result = AddResult{Line: *existing, Merged: true}
		ev = Event{Type: EventLineMerged, Line: *existing, PreviousQuantity: prev}
	} else {
		snap := p.Snapshot()
		line := &Line{
			ProductID: snap.ID,
			Size:      size,
			Quantity:  quantity,
			Price:     snap.Price,
			Name:      snap.Name,
			Image:     snap.Image,
			Category:  snap.Category,
			AddedAt:   e.now(),
		}
		e.lines[key] = line
		e.order = append(e.order, key)
		result = AddResult{Line: *line}
		ev = Event{Type: EventLineAdded, Line: *line}
	}
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"product_id": p.ID,
		"size":       size,
		"quantity":   result.Line.Quantity,
		"merged":     result.Merged,
	}).Debug("cart line added")
	e.emit(ev)

	return result
}

// RemoveLine deletes the line for (productID, size) and returns it. The bool
// is false when no such line existed.
func (e *Engine) RemoveLine(productID int, size string) (Line, bool) {
	e.mu.Lock()
	removed, ok := e.removeLocked(LineKey{ProductID: productID, Size: size})
	e.mu.Unlock()

	if !ok {
		return Line{}, false
	}

	e.log.WithFields(logrus.Fields{
		"product_id": productID,
		"size":       size,
	}).Debug("cart line removed")
	e.emit(Event{Type: EventLineRemoved, Line: removed, PreviousQuantity: removed.Quantity})

	return removed, true
}

// SetQuantity replaces the quantity of an existing line. A quantity below 1
// removes the line. A missing line is left missing.
func (e *Engine) SetQuantity(productID int, size string, quantity int) QuantityResult {
	if quantity < 1 {
		removed, ok := e.RemoveLine(productID, size)
		return QuantityResult{Line: removed, Found: ok, Removed: ok}
	}

	key := LineKey{ProductID: productID, Size: size}

	e.mu.Lock()
	line, ok := e.lines[key]
	if !ok {
		e.mu.Unlock()
		return QuantityResult{}
	}
	prev := line.Quantity
	line.Quantity = quantity
	updated := *line
	e.mu.Unlock()

	if prev != quantity {
		e.emit(Event{Type: EventQuantityChanged, Line: updated, PreviousQuantity: prev})
	}

	return QuantityResult{Line: updated, Found: true}
}

// SetSize moves the line at (productID, currentSize) to newSize. When a line
// already exists at the destination the quantities are merged into it and the
// source line is deleted; otherwise the line is re-keyed in place.
func (e *Engine) SetSize(productID int, currentSize, newSize string) SizeResult {
	from := LineKey{ProductID: productID, Size: currentSize}
	to := LineKey{ProductID: productID, Size: newSize}

	e.mu.Lock()
	src, ok := e.lines[from]
	if !ok {
		e.mu.Unlock()
		return SizeResult{}
	}
	if currentSize == newSize {
		line := *src
		e.mu.Unlock()
		return SizeResult{Line: line, Found: true}
	}

	var result SizeResult
	var ev Event
	if dst, exists := e.lines[to]; exists {
		prev := dst.Quantity
		dst.Quantity += src.Quantity
		e.removeLocked(from)
		result = SizeResult{Line: *dst, Found: true, Merged: true}
		ev = Event{Type: EventSizeMerged, Line: *dst, PreviousSize: currentSize, PreviousQuantity: prev}
	} else {
		delete(e.lines, from)
		src.Size = newSize
		e.lines[to] = src
		for i, k := range e.order {
			if k == from {
				e.order[i] = to
				break
			}
		}
		result = SizeResult{Line: *src, Found: true}
		ev = Event{Type: EventSizeChanged, Line: *src, PreviousSize: currentSize, PreviousQuantity: src.Quantity}
	}
	e.mu.Unlock()

	e.log.WithFields(logrus.Fields{
		"product_id": productID,
		"from":       currentSize,
		"to":         newSize,
		"merged":     result.Merged,
	}).Debug("cart line size changed")
	e.emit(ev)

	return result
}

// Clear empties the cart
func (e *Engine) Clear() {
	e.mu.Lock()
	n := len(e.order)
	e.lines = make(map[LineKey]*Line)
	e.order = nil
	e.mu.Unlock()

	e.log.WithField("lines", n).Debug("cart cleared")
	e.emit(Event{Type: EventCleared, Removed: n})
}

// Drain empties the cart and returns the lines it held, in insertion order,
// as one step.
func (e *Engine) Drain() []Line {
	e.mu.Lock()
	out := make([]Line, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, *e.lines[k])
	}
	e.lines = make(map[LineKey]*Line)
	e.order = nil
	e.mu.Unlock()

	if len(out) > 0 {
		e.log.WithField("lines", len(out)).Debug("cart drained")
		e.emit(Event{Type: EventCleared, Removed: len(out)})
	}
	return out
}

// Lines returns copies of all lines in insertion order
func (e *Engine) Lines() []Line {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Line, 0, len(e.order))
	for _, k := range e.order {
		out = append(out, *e.lines[k])
	}
	return out
}

// Line returns the line for (productID, size)
func (e *Engine) Line(productID int, size string) (Line, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	l, ok := e.lines[LineKey{ProductID: productID, Size: size}]
	if !ok {
		return Line{}, false
	}
	return *l, true
}

// Len returns the number of distinct lines
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.order)
}

// Total returns Σ price × quantity
func (e *Engine) Total() decimal.Decimal {
	return SumPrice(e.Lines())
}

// ItemCount returns Σ quantity
func (e *Engine) ItemCount() int {
	return SumQuantity(e.Lines())
}

// Totals derives the checkout summary under pricing
func (e *Engine) Totals(pricing Pricing) Totals {
	return CalculateTotals(e.Lines(), pricing)
}

func (e *Engine) removeLocked(key LineKey) (Line, bool) {
	line, ok := e.lines[key]
	if !ok {
		return Line{}, false
	}
	delete(e.lines, key)
	for i, k := range e.order {
		if k == key {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return *line, true
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l.OnCartEvent(ev)
	}
}
