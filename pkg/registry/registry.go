// Package registry provides the process-wide binding and subscription
// registries for the Affix runtime.
//
// Manager owns two maps: named bindings (globally reachable callbacks fired
// by name through the dispatcher) and keyed subscriptions (live handles that
// components register for later bulk teardown). It is constructed explicitly
// rather than held as package state, so each UI session — and each test —
// owns a fresh registry.
package registry

import (
	"sync"

	"github.com/go-drift/affix/pkg/dispatch"
	"github.com/go-drift/affix/pkg/errors"
	"github.com/go-drift/affix/pkg/metric"
)

// Subscription key prefixes. A key is a category prefix concatenated with a
// caller-supplied logical name, so everything belonging to one name can be
// torn down across categories.
const (
	KeyPrefixAttribute  = "attribute_"
	KeyPrefixConnection = "connection_"
	KeyPrefixLifecycle  = "lifecycle_"
)

// AttributeKey derives the subscription key for an attribute observer.
func AttributeKey(name string) string { return KeyPrefixAttribute + name }

// ConnectionKey derives the subscription key for an event connection.
func ConnectionKey(name string) string { return KeyPrefixConnection + name }

// LifecycleKey derives the subscription key for a per-frame callback.
func LifecycleKey(name string) string { return KeyPrefixLifecycle + name }

// Handle is an active subscription that can be released.
// *scene.Connection satisfies Handle.
type Handle interface {
	Disconnect()
}

// Manager is the shared binding and subscription registry.
//
// Operations on different names or keys are safe to run concurrently.
// Registering the same key from two goroutines at once is a caller error;
// the single-owner invariants below assume one owner per name.
type Manager struct {
	dispatcher *dispatch.Dispatcher

	mu       sync.Mutex
	bindings map[string]func(args []any)
	subs     map[string]Handle
	metrics  *metric.Metrics
}

// New creates an empty manager that fires bindings through d.
func New(d *dispatch.Dispatcher) *Manager {
	return &Manager{
		dispatcher: d,
		bindings:   make(map[string]func(args []any)),
		subs:       make(map[string]Handle),
	}
}

// SetMetrics attaches optional instrumentation.
func (m *Manager) SetMetrics(metrics *metric.Metrics) {
	m.mu.Lock()
	m.metrics = metrics
	m.mu.Unlock()
}

// Bind registers a callback under a global name. At most one callback may
// own a name at a time; binding over an existing name fails, the existing
// owner must Unbind first.
func (m *Manager) Bind(name string, fn func(args []any)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bindings[name]; ok {
		return errors.New("registry.Bind", errors.KindBinding, name,
			"binding %q already exists; unbind it first", name)
	}
	m.bindings[name] = fn
	return nil
}

// Unbind removes a binding. It is a no-op when the name is not bound.
func (m *Manager) Unbind(name string) {
	m.mu.Lock()
	delete(m.bindings, name)
	m.mu.Unlock()
}

// Bound reports whether a binding exists under name.
func (m *Manager) Bound(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.bindings[name]
	return ok
}

// Fire invokes the binding registered under name with args, routed through
// the dispatcher: the callback may run after Fire returns, and a panic
// inside it does not reach the caller.
func (m *Manager) Fire(name string, args ...any) error {
	m.mu.Lock()
	fn, ok := m.bindings[name]
	metrics := m.metrics
	m.mu.Unlock()
	if !ok {
		return errors.New("registry.Fire", errors.KindBinding, name,
			"no binding registered under %q", name)
	}
	if metrics != nil {
		metrics.BindingFires.WithLabelValues(name).Inc()
	}
	m.dispatcher.Dispatch(func() { fn(args) })
	return nil
}

// ConnectKey stores an active subscription handle under key. Any previous
// handle at that key is released first, so re-registering a key never leaks
// its predecessor.
func (m *Manager) ConnectKey(key string, h Handle) {
	m.mu.Lock()
	prev := m.subs[key]
	m.subs[key] = h
	metrics := m.metrics
	count := len(m.subs)
	m.mu.Unlock()

	if prev != nil {
		prev.Disconnect()
	}
	if metrics != nil {
		metrics.SubscriptionsActive.Set(float64(count))
	}
}

// DisconnectKey releases and removes the handle at key, if present.
func (m *Manager) DisconnectKey(key string) {
	m.mu.Lock()
	h, ok := m.subs[key]
	delete(m.subs, key)
	metrics := m.metrics
	count := len(m.subs)
	m.mu.Unlock()

	if ok {
		h.Disconnect()
		if metrics != nil {
			metrics.SubscriptionsActive.Set(float64(count))
		}
	}
}

// Subscribed reports whether a live handle is registered under key.
func (m *Manager) Subscribed(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[key]
	return ok
}
