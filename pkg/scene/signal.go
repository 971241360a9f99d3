package scene

import (
	"sort"
	"sync"
)

// Signal is a named event that handlers connect to and disconnect from.
//
// Emit invokes handlers in connection order. Handlers run on the emitting
// goroutine; a handler that must not block the emitter should hand its work
// to a Dispatcher.
type Signal[T any] struct {
	mu       sync.Mutex
	handlers map[int]func(T)
	nextID   int
}

// Connect registers a handler and returns its Connection.
// A nil handler yields an already-disconnected Connection.
func (s *Signal[T]) Connect(fn func(T)) *Connection {
	if fn == nil {
		return &Connection{}
	}
	s.mu.Lock()
	if s.handlers == nil {
		s.handlers = make(map[int]func(T))
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = fn
	s.mu.Unlock()

	return &Connection{detach: func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}}
}

// Emit invokes every connected handler with v.
//
// Handler membership is re-checked before each invocation so that a handler
// disconnected mid-emit is not called.
func (s *Signal[T]) Emit(v T) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Ints(ids)

	for _, id := range ids {
		s.mu.Lock()
		fn, ok := s.handlers[id]
		s.mu.Unlock()
		if ok {
			fn(v)
		}
	}
}

// HandlerCount returns the number of connected handlers.
func (s *Signal[T]) HandlerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Connection is a handle to an active Signal subscription.
type Connection struct {
	mu     sync.Mutex
	detach func()
}

// Disconnect removes the handler from its signal. It is idempotent; after
// the first call returns, the handler receives no further emissions.
func (c *Connection) Disconnect() {
	c.mu.Lock()
	detach := c.detach
	c.detach = nil
	c.mu.Unlock()
	if detach != nil {
		detach()
	}
}

// Connected reports whether the subscription is still active.
func (c *Connection) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.detach != nil
}
