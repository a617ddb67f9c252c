package plugin

import (
	"sort"

	"github.com/opencip/cip/internal/corerr"
)

// Named is the minimum contract for anything kept in a Registry: a unique
// name for O(1) lookup.
type Named interface {
	Name() string
}

// Prioritized additionally exposes a priority for sorted iteration.
type Prioritized interface {
	Named
	Priority() int
}

// Registry is a typed named list (C15): registration mutates only before
// search begins; lookup by name is O(1); iteration uses a cached
// priority-sorted view rebuilt lazily after a registration.
type Registry[T Prioritized] struct {
	byName map[string]T
	sorted []T
	dirty  bool
}

// NewRegistry creates an empty registry for plugin kind T.
func NewRegistry[T Prioritized]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]T)}
}

// Add registers item, rejecting a duplicate name.
func (r *Registry[T]) Add(item T) error {
	if _, ok := r.byName[item.Name()]; ok {
		return corerr.New(corerr.InvalidData, "plugin.Add: duplicate name "+item.Name())
	}
	r.byName[item.Name()] = item
	r.dirty = true
	return nil
}

// Get looks up a plugin by name.
func (r *Registry[T]) Get(name string) (T, error) {
	item, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, corerr.New(corerr.PluginNotFound, "plugin.Get: "+name)
	}
	return item, nil
}

// ByPriority returns every registered plugin, highest priority first,
// rebuilding the cached sorted view if a registration happened since the
// last call.
func (r *Registry[T]) ByPriority() []T {
	if r.dirty {
		r.sorted = make([]T, 0, len(r.byName))
		for _, item := range r.byName {
			r.sorted = append(r.sorted, item)
		}
		sort.SliceStable(r.sorted, func(i, j int) bool {
			return r.sorted[i].Priority() > r.sorted[j].Priority()
		})
		r.dirty = false
	}
	return r.sorted
}

// Len returns the number of registered plugins.
func (r *Registry[T]) Len() int { return len(r.byName) }
