package widget

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Factory builds a child widget inside host.
type Factory func(host Parent) (any, error)

// View groups child widgets under an optional locator. Children are built
// on first access and cached until Invalidate.
type View struct {
	base
	host      Parent
	onAccess  func(ctx context.Context) error
	mu        sync.Mutex
	factories map[string]Factory
	widgets   map[string]any
}

// NewView creates a view located by locator inside parent. An empty
// locator makes the view share the parent's scope.
func NewView(parent Parent, locator string) *View {
	v := newView(parent, "View", locator)
	v.host = v
	return v
}

func newView(parent Parent, kind, locator string) *View {
	return &View{
		base:      newBase(parent, kind, locator),
		factories: make(map[string]Factory),
		widgets:   make(map[string]any),
	}
}

// Register adds a named child. Registering a name again replaces the
// factory and drops the cached widget.
func (v *View) Register(name string, factory Factory) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.factories[name] = factory
	delete(v.widgets, name)
}

// Names returns registered child names sorted.
func (v *View) Names() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	names := make([]string, 0, len(v.factories))
	for name := range v.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Widget returns the named child, building it on first use, and runs the
// view's access hook (a tab selects itself, an accordion opens).
func (v *View) Widget(ctx context.Context, name string) (any, error) {
	w, err := v.lookup(name)
	if err != nil {
		return nil, err
	}
	if v.onAccess != nil {
		if err := v.onAccess(ctx); err != nil {
			return nil, fmt.Errorf("access %s: %w", name, err)
		}
	}
	return w, nil
}

func (v *View) lookup(name string) (any, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if w, ok := v.widgets[name]; ok {
		return w, nil
	}
	factory, ok := v.factories[name]
	if !ok {
		return nil, fmt.Errorf("view has no widget %q", name)
	}
	w, err := factory(v.host)
	if err != nil {
		return nil, fmt.Errorf("build widget %q: %w", name, err)
	}
	v.widgets[name] = w
	v.logger.Debug("Widget built", "name", name)
	return w, nil
}

// Invalidate drops every cached child, for use after the page re-renders.
func (v *View) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.widgets = make(map[string]any)
}

// Child returns the named child of v as T.
func Child[T any](ctx context.Context, v *View, name string) (T, error) {
	var zero T
	w, err := v.Widget(ctx, name)
	if err != nil {
		return zero, err
	}
	typed, ok := w.(T)
	if !ok {
		return zero, fmt.Errorf("widget %q is %T, not %T", name, w, zero)
	}
	return typed, nil
}

// Add registers a typed factory.
func Add[T any](v *View, name string, factory func(host Parent) (T, error)) {
	v.Register(name, func(host Parent) (any, error) {
		return factory(host)
	})
}
