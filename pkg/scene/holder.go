package scene

import (
	"reflect"
	"sync"
)

// ValueHolder is a typed child value object inside a Store.
//
// Unlike inline attributes, a holder raises its Changed signal only when the
// new value differs from the current one. Host code chooses holders when it
// wants cross-boundary change events with that de-duplication built in.
type ValueHolder struct {
	name    string
	mu      sync.Mutex
	value   any
	changed Signal[any]
}

// NewValueHolder creates a holder with an initial value.
func NewValueHolder(name string, initial any) *ValueHolder {
	return &ValueHolder{name: name, value: initial}
}

// Name returns the holder's name.
func (h *ValueHolder) Name() string { return h.name }

// Value returns the current value.
func (h *ValueHolder) Value() any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// SetValue stores v and returns it. The Changed signal fires with the new
// value only when v differs from the current value.
func (h *ValueHolder) SetValue(v any) any {
	h.mu.Lock()
	same := reflect.DeepEqual(h.value, v)
	h.value = v
	h.mu.Unlock()
	if !same {
		h.changed.Emit(v)
	}
	return v
}

// Changed is the signal raised with the new value on every distinct write.
func (h *ValueHolder) Changed() *Signal[any] { return &h.changed }
