// Package scene provides the element tree and eventing primitives that the
// Affix state layer is built on.
//
// This package defines the boundary types for wrapping visual elements:
// Node, Signal, ValueHolder, and Store.
//
// # Core Types
//
// Node is a visual element stand-in: it carries a name, a class name, a
// visibility flag, a parent/child tree, named events, and an optional
// side-car attribute store.
//
// Signal is a connect/disconnect event. Connecting returns a Connection
// handle; after Disconnect returns, the handler is never invoked again.
//
// # Attribute Stores
//
// Store is the side-car key/value container attached to a Node. An attribute
// is backed either by a typed ValueHolder child (which raises its Changed
// signal only when the value actually changes) or by an inline map entry
// (whose AttributeChanged signal fires on every write, equal value or not).
// Component resolves both backings through a single lookup order: holder
// first, inline entry second.
//
// # Change Semantics
//
// The two backings deliberately keep their native notification behavior:
//
//	holder := store.AttachHolder("health", 100)
//	holder.SetValue(100) // no Changed emission, value is unchanged
//	store.SetAttribute("score", 0)
//	store.SetAttribute("score", 0) // AttributeChanged fires again
//
// Observers that need de-duplication compare new against old themselves.
package scene
