// Package reload keeps constructed engine instances by configuration prefix
// so that reconstructing with the same prefix in a live-reload setting reuses
// existing sheets and numbering instead of inserting duplicate rules.
//
// Registry is created once at program start and passed by reference to
// whatever constructs instances. It is not safe for concurrent use.
package reload

// Registry maps prefix to previously constructed instance.
type Registry[T any] struct {
	instances map[string]T
}

// New returns empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{instances: make(map[string]T)}
}

// Lookup returns instance registered for the prefix.
func (r *Registry[T]) Lookup(prefix string) (T, bool) {
	v, ok := r.instances[prefix]
	return v, ok
}

// Register stores instance under the prefix replacing previous one.
func (r *Registry[T]) Register(prefix string, instance T) {
	r.instances[prefix] = instance
}

// Forget drops instance registered for the prefix.
func (r *Registry[T]) Forget(prefix string) {
	delete(r.instances, prefix)
}

// Len returns number of registered instances.
func (r *Registry[T]) Len() int {
	return len(r.instances)
}
