package cart

// EventType names a cart state change
type EventType string

const (
	EventLineAdded       EventType = "line_added"
	EventLineMerged      EventType = "line_merged"
	EventLineRemoved     EventType = "line_removed"
	EventQuantityChanged EventType = "quantity_changed"
	EventSizeChanged     EventType = "size_changed"
	EventSizeMerged      EventType = "size_merged"
	EventCleared         EventType = "cart_cleared"
)

// Event describes one applied mutation. Line is the state after the change,
// or the removed line for EventLineRemoved.
type Event struct {
	Type             EventType
	Line             Line
	PreviousSize     string
	PreviousQuantity int
	// Removed counts the lines dropped by EventCleared
	Removed int
}

// Listener observes cart events. Listeners run synchronously after the
// mutation is applied, outside the engine lock.
type Listener interface {
	OnCartEvent(Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Event)

// OnCartEvent calls f(e)
func (f ListenerFunc) OnCartEvent(e Event) { f(e) }
