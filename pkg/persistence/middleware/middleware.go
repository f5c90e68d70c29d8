// Package middleware provides ports.RunStore decorators that add
// cross-cutting behavior (logging, instrumentation) around any store
// implementation.
package middleware

import "github.com/railyard/shunt/pkg/ports"

// Middleware wraps a RunStore with additional behavior.
type Middleware func(next ports.RunStore) ports.RunStore

// Wrap applies middlewares to a store. The first middleware in the list
// becomes the outermost layer.
func Wrap(store ports.RunStore, mws ...Middleware) ports.RunStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
