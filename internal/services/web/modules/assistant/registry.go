package assistant

import (
	"strings"
	"sync"
)

// Registry keeps one Panel per signed-in principal in memory.
type Registry struct {
	mu        sync.Mutex
	panels    map[string]*Panel
	afterFunc AfterFunc
}

// NewRegistry returns an empty registry whose panels use afterFunc.
func NewRegistry(afterFunc AfterFunc) *Registry {
	return &Registry{panels: map[string]*Panel{}, afterFunc: afterFunc}
}

// Panel returns the panel of principalID, creating it on first use.
func (r *Registry) Panel(principalID string) *Panel {
	principalID = strings.TrimSpace(principalID)
	r.mu.Lock()
	defer r.mu.Unlock()
	panel, ok := r.panels[principalID]
	if !ok {
		panel = NewPanel(r.afterFunc)
		r.panels[principalID] = panel
	}
	return panel
}

// Forget drops the panel of principalID.
func (r *Registry) Forget(principalID string) {
	r.mu.Lock()
	panel, ok := r.panels[principalID]
	delete(r.panels, principalID)
	r.mu.Unlock()
	if ok {
		panel.Close()
	}
}

// Len reports how many panels are held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.panels)
}

// Close stops every panel timer and empties the registry.
func (r *Registry) Close() {
	r.mu.Lock()
	panels := r.panels
	r.panels = map[string]*Panel{}
	r.mu.Unlock()
	for _, panel := range panels {
		panel.Close()
	}
}
