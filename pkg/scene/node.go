package scene

import (
	"strings"
	"sync"
)

// Node is a visual element stand-in.
//
// Node carries only what the state layer needs from a scene graph: identity
// (name, class, path), a visibility flag, named child lookup, named events,
// and an optional side-car attribute store. Rendering and layout live
// elsewhere.
type Node struct {
	name  string
	class string

	mu       sync.Mutex
	parent   *Node
	visible  bool
	children map[string]*Node
	events   map[string]*Signal[[]any]
	store    *Store
}

// NewNode creates a visible node with the given name and class.
func NewNode(name, class string) *Node {
	return &Node{
		name:     name,
		class:    class,
		visible:  true,
		children: make(map[string]*Node),
		events:   make(map[string]*Signal[[]any]),
	}
}

// Name returns the node's own name.
func (n *Node) Name() string { return n.name }

// ClassName returns the node's concrete type name for diagnostics.
func (n *Node) ClassName() string { return n.class }

// FullPath returns the dot-joined ancestry path down to this node.
func (n *Node) FullPath() string {
	var parts []string
	for cur := n; cur != nil; {
		parts = append(parts, cur.name)
		cur.mu.Lock()
		parent := cur.parent
		cur.mu.Unlock()
		cur = parent
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Visible reports whether the node is currently visible.
func (n *Node) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// SetVisible flips the visibility flag.
func (n *Node) SetVisible(v bool) {
	n.mu.Lock()
	n.visible = v
	n.mu.Unlock()
}

// AddChild attaches child under its own name and returns it.
// An existing child with the same name is replaced.
func (n *Node) AddChild(child *Node) *Node {
	n.mu.Lock()
	n.children[child.name] = child
	n.mu.Unlock()
	child.mu.Lock()
	child.parent = n
	child.mu.Unlock()
	return child
}

// Child returns the named child, if present.
func (n *Node) Child(name string) (*Node, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.children[name]
	return c, ok
}

// Event returns the named event signal, creating it on first lookup.
// Event payloads are the argument slices handed to Emit.
func (n *Node) Event(name string) *Signal[[]any] {
	n.mu.Lock()
	defer n.mu.Unlock()
	sig, ok := n.events[name]
	if !ok {
		sig = &Signal[[]any]{}
		n.events[name] = sig
	}
	return sig
}

// FindStore returns the attached attribute store when its name matches.
func (n *Node) FindStore(name string) (*Store, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.store != nil && n.store.name == name {
		return n.store, true
	}
	return nil, false
}

// AttachStore attaches a side-car store. At most one store is attached per
// node; when one already exists, the existing store is returned unchanged.
func (n *Node) AttachStore(s *Store) *Store {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.store != nil {
		return n.store
	}
	n.store = s
	return s
}

// Member resolves a named member on the node: child nodes first, then the
// attached store by its name. Used for the component's member forwarding.
func (n *Node) Member(name string) (any, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c, ok := n.children[name]; ok {
		return c, true
	}
	if n.store != nil && n.store.name == name {
		return n.store, true
	}
	return nil, false
}
