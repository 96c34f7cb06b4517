// Package app composes web modules into the root handler and serves it.
package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/crmdesk/internal/services/web/module"
	"github.com/louisbranch/crmdesk/internal/services/web/routepath"
	"github.com/louisbranch/crmdesk/internal/services/web/session"
)

// ComposeInput carries module groups.
type ComposeInput struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module
}

// Compose mounts module groups on root. Protected modules must live under
// /app/ and are wrapped with the sign-in guard.
func Compose(root *http.ServeMux, input ComposeInput) error {
	if root == nil {
		return fmt.Errorf("root mux is required")
	}
	seen := make(map[string]string)
	for _, feature := range input.PublicModules {
		if err := mountModule(root, feature, seen, false); err != nil {
			return err
		}
	}
	for _, feature := range input.ProtectedModules {
		if err := mountModule(root, feature, seen, true); err != nil {
			return err
		}
	}
	return nil
}

func mountModule(root *http.ServeMux, feature module.Module, seen map[string]string, protected bool) error {
	if feature == nil {
		return fmt.Errorf("module is nil")
	}
	mount, err := feature.Mount()
	if err != nil {
		return fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	if len(mount.Paths) == 0 {
		return fmt.Errorf("mount module %q: at least one path is required", feature.ID())
	}
	handler := mount.Handler
	if protected {
		handler = session.RequireAuth(handler)
	}
	for _, path := range mount.Paths {
		if err := validatePath(path); err != nil {
			return fmt.Errorf("mount module %q has invalid path %q: %w", feature.ID(), path, err)
		}
		isProtected := isProtectedPath(path)
		if protected && !isProtected {
			return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.AppPrefix, path)
		}
		if !protected && isProtected {
			return fmt.Errorf("module %q has protected path %q in public group", feature.ID(), path)
		}
		if previous, ok := seen[path]; ok {
			return fmt.Errorf("module %q duplicates path %q owned by module %q", feature.ID(), path, previous)
		}
		seen[path] = feature.ID()
		root.Handle(path, handler)
	}
	return nil
}

func isProtectedPath(path string) bool {
	return strings.HasPrefix(path, routepath.AppPrefix)
}

func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	if strings.TrimSpace(path) != path {
		return fmt.Errorf("path must not include surrounding whitespace")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("path must begin with /")
	}
	if path == "/" {
		return fmt.Errorf("root path is reserved")
	}
	return nil
}
