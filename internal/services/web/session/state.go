package session

import (
	"context"
)

// State is the per-request session. It starts loading and settles once.
type State struct {
	done      chan struct{}
	principal *Principal
}

func newState() *State {
	return &State{done: make(chan struct{})}
}

func (s *State) settle(principal *Principal) {
	s.principal = principal
	close(s.done)
}

// Loading reports whether resolution is still in flight.
func (s *State) Loading() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Principal returns the resolved principal, or nil while loading and for
// anonymous requests.
func (s *State) Principal() *Principal {
	if s == nil || s.Loading() {
		return nil
	}
	return s.principal
}

// Wait blocks until resolution settles or ctx ends.
func (s *State) Wait(ctx context.Context) error {
	if s == nil {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot is the JSON view of a State.
type Snapshot struct {
	Principal *Principal `json:"principal"`
	Loading   bool       `json:"loading"`
}

// Snapshot captures the current principal and loading flag.
func (s *State) Snapshot() Snapshot {
	if s.Loading() {
		return Snapshot{Loading: true}
	}
	return Snapshot{Principal: s.Principal()}
}

type stateKey struct{}

// WithState stores state on ctx.
func WithState(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, stateKey{}, state)
}

// FromContext returns the state stored on ctx. Requests that never passed
// through the middleware read as settled and anonymous.
func FromContext(ctx context.Context) *State {
	if ctx != nil {
		if state, ok := ctx.Value(stateKey{}).(*State); ok && state != nil {
			return state
		}
	}
	anonymous := newState()
	anonymous.settle(nil)
	return anonymous
}
