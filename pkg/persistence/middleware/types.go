package middleware

import "github.com/akilivoice/pathrag/pkg/ports"

// Middleware wraps a SessionStore to add behavior on the way in or out.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain applies middlewares outermost-first: Chain(store, a, b) yields
// a(b(store)).
func Chain(store ports.SessionStore, mws ...Middleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
