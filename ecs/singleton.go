package ecs

// Singleton provides access to a single component instance that is not
// associated with any entity. Use this for global state such as loaded
// assets, timing or configuration.
//
// A Singleton field on a registered System is bound to the scheduler's
// storage automatically.
type Singleton[T any] struct {
	storage *Storage
}

// NewSingleton creates a new Singleton accessor for the given storage.
// If the singleton doesn't exist yet it is created from initializer, or from
// the zero value when no initializer is given.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	if SingletonOf[T](storage) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.AddSingleton(&value)
	}

	s := &Singleton[T]{}
	s.Init(storage)
	return s
}

// Init binds the Singleton to a storage.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
}

// Get returns a pointer to the singleton component, or nil if it is not
// in storage. The lookup is repeated on every call, so an accessor follows
// RemoveSingleton and a later AddSingleton.
func (s *Singleton[T]) Get() *T {
	if s.storage == nil {
		return nil
	}
	return SingletonOf[T](s.storage)
}

// Exists returns true if the singleton component has been added to storage
func (s *Singleton[T]) Exists() bool {
	return s.Get() != nil
}
