// Package module defines the feature contract used by web composition.
package module

import "net/http"

// Mount describes the routes a module serves.
type Mount struct {
	// Paths are registered on the root mux and dispatched to Handler.
	Paths   []string
	Handler http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}
