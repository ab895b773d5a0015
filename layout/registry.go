package layout

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/puzpuzpuz/xsync/v4"

	codec "github.com/oy3o/fieldcodec"
)

// Registry holds named layouts for concurrent lookup. It shares only the
// descriptions; every Build hands out an independent field tree.
type Registry struct {
	layouts *xsync.Map[string, *Layout]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{layouts: xsync.NewMap[string, *Layout]()}
}

// Register adds l under its name. A name can be registered once.
func (r *Registry) Register(l *Layout) error {
	if l == nil || l.Name == "" {
		return ErrMissingName
	}
	if _, loaded := r.layouts.LoadOrStore(l.Name, l); loaded {
		return fmt.Errorf("%w: %s", ErrDuplicateLayout, l.Name)
	}
	return nil
}

// LoadGlob loads and registers every layout file matching pattern.
func (r *Registry) LoadGlob(pattern string) error {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("load layouts: %w", err)
	}
	for _, path := range paths {
		l, err := Load(path)
		if err != nil {
			return err
		}
		if err := r.Register(l); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Lookup returns the layout registered under name.
func (r *Registry) Lookup(name string) (*Layout, bool) {
	return r.layouts.Load(name)
}

// Build returns a fresh Composite for the layout registered under name.
func (r *Registry) Build(name string) (*codec.Composite, error) {
	l, ok := r.layouts.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return l.Build()
}

// Names returns the registered layout names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.layouts.Size())
	r.layouts.Range(func(name string, _ *Layout) bool {
		names = append(names, name)
		return true
	})
	slices.Sort(names)
	return names
}
