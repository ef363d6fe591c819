package wishlist

// EventType names a wishlist state change
type EventType string

const (
	EventEntryAdded   EventType = "entry_added"
	EventEntryRemoved EventType = "entry_removed"
	EventCleared      EventType = "wishlist_cleared"
	EventLoaded       EventType = "wishlist_loaded"
)

// Event describes one applied change. Count is the number of entries after it.
type Event struct {
	Type  EventType
	Entry Entry
	Count int
}

// Listener observes wishlist events. Listeners run synchronously after the
// change is applied, outside the engine lock.
type Listener interface {
	OnWishlistEvent(Event)
}

// ListenerFunc adapts a function to Listener
type ListenerFunc func(Event)

// OnWishlistEvent calls f(e)
func (f ListenerFunc) OnWishlistEvent(e Event) { f(e) }
