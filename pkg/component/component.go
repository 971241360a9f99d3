// Package component wraps a scene element with an observable attribute store.
//
// A Component pairs one element with its side-car Store and exposes typed
// get/set/update operations, attribute observation, event connection, and a
// visibility-gated per-frame callback. Each observation registers a handle
// in the shared registry under a key derived from a logical name, so
// Destroy(name) tears down everything belonging to that name at once.
//
// # Dispatch Asymmetry
//
// Attribute observers and fired bindings run through the Dispatcher: they
// may execute after the triggering call returns, and a panic inside them is
// isolated. Lifecycle callbacks run inline on the frame tick and are not
// isolated; a failure there propagates and halts the tick loop.
package component

import (
	"sync"
	"time"

	"github.com/go-drift/affix/pkg/dispatch"
	"github.com/go-drift/affix/pkg/errors"
	"github.com/go-drift/affix/pkg/frame"
	"github.com/go-drift/affix/pkg/registry"
	"github.com/go-drift/affix/pkg/scene"
)

// Component wraps a visual element and its attribute store.
//
// The element is not owned: a Component must be discarded alongside its
// element. The store is found-or-created during New, so constructing twice
// around the same element reuses the same store.
type Component struct {
	element    *scene.Node
	store      *scene.Store
	manager    *registry.Manager
	dispatcher *dispatch.Dispatcher
	clock      *frame.Clock
}

// New wraps element. If the element has no attribute store yet, one is
// created under the canonical derived name and attached before New returns.
func New(element *scene.Node, manager *registry.Manager, dispatcher *dispatch.Dispatcher, clock *frame.Clock) *Component {
	storeName := scene.StoreNameFor(element.Name())
	store, ok := element.FindStore(storeName)
	if !ok {
		store = element.AttachStore(scene.NewStore(storeName))
	}
	return &Component{
		element:    element,
		store:      store,
		manager:    manager,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// Element returns the wrapped element.
func (c *Component) Element() *scene.Node { return c.element }

// Store returns the element's attribute store.
func (c *Component) Store() *scene.Store { return c.store }

// Get resolves an attribute through the dual-path lookup: typed holder
// first, inline entry second. Returns nil when neither path has the name.
func (c *Component) Get(name string) any {
	v, _ := c.store.Get(name)
	return v
}

// Set writes an attribute through the dual-path resolution and returns the
// value written. An existing typed holder wins; otherwise the inline entry
// is written.
func (c *Component) Set(name string, v any) any {
	return c.store.Set(name, v)
}

// Update modifies an attribute that was previously Set. When both the
// current value and delta are numeric the new value is current + delta;
// otherwise delta replaces the current value. Updating an attribute that
// was never set is an error.
func (c *Component) Update(name string, delta any) (any, error) {
	cur, ok := c.store.Get(name)
	if !ok {
		return nil, errors.New("component.Update", errors.KindAttribute, name,
			"cannot update nil attribute %q on %s", name, c.element.FullPath())
	}
	next, numeric := addNumeric(cur, delta)
	if !numeric {
		next = delta
	}
	return c.store.Set(name, next), nil
}

// Call is the shorthand form: with a value it is Set, without one it is Get.
func (c *Component) Call(name string, value ...any) any {
	if len(value) > 0 {
		return c.Set(name, value[0])
	}
	return c.Get(name)
}

// Member resolves a named member: the element's own name returns the element
// itself, anything else is forwarded to the element's member lookup.
// Unresolvable names fail with an error naming the element's path and type.
func (c *Component) Member(name string) (any, error) {
	if name == c.element.Name() {
		return c.element, nil
	}
	if v, ok := c.element.Member(name); ok {
		return v, nil
	}
	return nil, errors.New("component.Member", errors.KindMember, name,
		"%s is not a valid member of %s %q", name, c.element.ClassName(), c.element.FullPath())
}

// Attribute observes changes to a previously-Set attribute.
//
// The callback first receives one baseline invocation (current, current)
// through the Dispatcher, ordered before any change notification for this
// subscription. Each subsequent change delivers (new, previous) through the
// Dispatcher, and the tracked previous value advances after each dispatch.
//
// The subscription is registered under "attribute_<name>", replacing any
// prior subscription at that key.
func (c *Component) Attribute(name string, fn func(newValue, oldValue any)) (registry.Handle, error) {
	cur, ok := c.store.Get(name)
	if !ok {
		return nil, errors.New("component.Attribute", errors.KindAttribute, name,
			"cannot observe nil attribute %q on %s", name, c.element.FullPath())
	}

	obs := &observer{dispatcher: c.dispatcher, fn: fn, prev: cur}
	c.dispatcher.Dispatch(func() { fn(cur, cur) })

	var conn *scene.Connection
	if holder, isHolder := c.store.Holder(name); isHolder {
		conn = holder.Changed().Connect(obs.notify)
	} else {
		conn = c.store.AttributeChanged().Connect(func(changed string) {
			if changed != name {
				return
			}
			v, _ := c.store.Attribute(name)
			obs.notify(v)
		})
	}
	c.manager.ConnectKey(registry.AttributeKey(name), conn)
	return conn, nil
}

// Connect subscribes a callback to a named event on any reachable element,
// not necessarily the wrapped one. There is no replay on connect. The
// subscription is registered under "connection_<element name>".
func (c *Component) Connect(target *scene.Node, event string, fn func(args []any)) registry.Handle {
	conn := target.Event(event).Connect(fn)
	c.manager.ConnectKey(registry.ConnectionKey(target.Name()), conn)
	return conn
}

// Lifecycle runs fn once per frame tick while the wrapped element is
// visible. The callback runs inline on the tick path, bypassing the
// Dispatcher, and must not block. The subscription is registered under
// "lifecycle_<name>".
func (c *Component) Lifecycle(name string, fn func(elapsed time.Duration)) registry.Handle {
	conn := c.clock.OnTick(func(elapsed time.Duration) {
		if c.element.Visible() {
			fn(elapsed)
		}
	})
	c.manager.ConnectKey(registry.LifecycleKey(name), conn)
	return conn
}

// Destroy releases the subscriptions registered under all three category
// keys derived from name. Categories with nothing registered are skipped.
func (c *Component) Destroy(name string) {
	c.manager.DisconnectKey(registry.AttributeKey(name))
	c.manager.DisconnectKey(registry.ConnectionKey(name))
	c.manager.DisconnectKey(registry.LifecycleKey(name))
}

// observer tracks the previous value for one attribute subscription.
type observer struct {
	dispatcher *dispatch.Dispatcher
	fn         func(newValue, oldValue any)

	mu   sync.Mutex
	prev any
}

// notify hands (new, previous) to the dispatcher and advances the tracked
// previous value after dispatch.
func (o *observer) notify(v any) {
	o.mu.Lock()
	old := o.prev
	o.dispatcher.Dispatch(func() { o.fn(v, old) })
	o.prev = v
	o.mu.Unlock()
}
