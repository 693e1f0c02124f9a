package app

// EventSource supplies the input events of a tick.
type EventSource interface {
	// Drain returns every event received since the previous call.
	Drain() []any
}

// ChannelEvents is an EventSource fed from other goroutines. Events sent
// while the buffer is full are dropped.
type ChannelEvents struct {
	ch chan any
}

// NewChannelEvents creates a source buffering up to size events.
func NewChannelEvents(size int) *ChannelEvents {
	return &ChannelEvents{ch: make(chan any, size)}
}

// Push enqueues an event and reports whether it was accepted.
func (c *ChannelEvents) Push(event any) bool {
	select {
	case c.ch <- event:
		return true
	default:
		return false
	}
}

// Drain returns the buffered events without blocking.
func (c *ChannelEvents) Drain() []any {
	var events []any
	for {
		select {
		case event := <-c.ch:
			events = append(events, event)
		default:
			return events
		}
	}
}
