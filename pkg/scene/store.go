package scene

import "sync"

// StoreNameFor returns the canonical side-car store name for an element.
// One store per element, named deterministically from the element's name.
func StoreNameFor(element string) string {
	return "state_" + element
}

// Store is the side-car attribute container attached to a Node.
//
// Attributes are dual-backed: a named ValueHolder child or an inline map
// entry. Lookups check holders first and fall back to the inline map, so a
// name always resolves to the same backing regardless of which path wrote it.
type Store struct {
	name string

	mu      sync.Mutex
	holders map[string]*ValueHolder
	attrs   map[string]any

	// attributeChanged fires with the attribute name on every inline write,
	// including writes of an equal value. Observers re-read on fire.
	attributeChanged Signal[string]
}

// NewStore creates an empty attribute store.
func NewStore(name string) *Store {
	return &Store{
		name:    name,
		holders: make(map[string]*ValueHolder),
		attrs:   make(map[string]any),
	}
}

// Name returns the store's name.
func (s *Store) Name() string { return s.name }

// Holder returns the typed holder registered under name, if any.
func (s *Store) Holder(name string) (*ValueHolder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holders[name]
	return h, ok
}

// AttachHolder registers a typed holder under name and returns it.
// If a holder already exists under that name, the existing one is returned
// and initial is ignored.
func (s *Store) AttachHolder(name string, initial any) *ValueHolder {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.holders[name]; ok {
		return h
	}
	h := NewValueHolder(name, initial)
	s.holders[name] = h
	return h
}

// Attribute returns the inline attribute under name, if set.
func (s *Store) Attribute(name string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.attrs[name]
	return v, ok
}

// SetAttribute writes an inline attribute and fires AttributeChanged with
// the attribute name. Inline writes always signal, even for equal values.
func (s *Store) SetAttribute(name string, v any) any {
	s.mu.Lock()
	s.attrs[name] = v
	s.mu.Unlock()
	s.attributeChanged.Emit(name)
	return v
}

// Has reports whether name resolves through either backing.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[name]; ok {
		return true
	}
	_, ok := s.attrs[name]
	return ok
}

// Get resolves name through the dual-path lookup: holder first, inline
// second. Returns (nil, false) when neither backing has the name.
func (s *Store) Get(name string) (any, bool) {
	s.mu.Lock()
	h, ok := s.holders[name]
	s.mu.Unlock()
	if ok {
		return h.Value(), true
	}
	return s.Attribute(name)
}

// Set writes through the dual-path resolution: an existing holder wins,
// otherwise the inline attribute is written. Returns the value written.
func (s *Store) Set(name string, v any) any {
	s.mu.Lock()
	h, ok := s.holders[name]
	s.mu.Unlock()
	if ok {
		return h.SetValue(v)
	}
	return s.SetAttribute(name, v)
}

// AttributeChanged is the signal raised with the attribute name on every
// inline write.
func (s *Store) AttributeChanged() *Signal[string] { return &s.attributeChanged }
