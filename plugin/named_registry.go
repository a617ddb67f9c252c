package plugin

import "github.com/opencip/cip/internal/corerr"

// NamedRegistry is a typed named list for plugin kinds with no priority
// ordering (readers, conflict analyzers): O(1) lookup by name only.
type NamedRegistry[T Named] struct {
	byName map[string]T
}

// NewNamedRegistry creates an empty registry for plugin kind T.
func NewNamedRegistry[T Named]() *NamedRegistry[T] {
	return &NamedRegistry[T]{byName: make(map[string]T)}
}

// Add registers item, rejecting a duplicate name.
func (r *NamedRegistry[T]) Add(item T) error {
	if _, ok := r.byName[item.Name()]; ok {
		return corerr.New(corerr.InvalidData, "plugin.Add: duplicate name "+item.Name())
	}
	r.byName[item.Name()] = item
	return nil
}

// Get looks up a plugin by name.
func (r *NamedRegistry[T]) Get(name string) (T, error) {
	item, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, corerr.New(corerr.PluginNotFound, "plugin.Get: "+name)
	}
	return item, nil
}

// All returns every registered plugin, in no particular order.
func (r *NamedRegistry[T]) All() []T {
	out := make([]T, 0, len(r.byName))
	for _, item := range r.byName {
		out = append(out, item)
	}
	return out
}

// Len returns the number of registered plugins.
func (r *NamedRegistry[T]) Len() int { return len(r.byName) }
