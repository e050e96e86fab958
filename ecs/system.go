package ecs

import "time"

// System represents a behavior that operates on entities with specific components.
// User-defined systems implement this interface and can include Query and
// Singleton fields, which the Scheduler binds on registration, as well as
// custom state fields that persist between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// RunCondition gates a system: the system is skipped for the frame when the
// condition returns false.
type RunCondition func(storage *Storage) bool

// UpdateFrame is passed to every system executed in one scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

// Delta returns DeltaTime as a time.Duration.
func (f *UpdateFrame) Delta() time.Duration {
	return time.Duration(f.DeltaTime * float64(time.Second))
}
