package ecs

import "reflect"

// State is the singleton holding the current value of a state machine
// registered with AddState. Systems request a transition with Set; the
// scheduler applies it at the end of the pass.
type State[S comparable] struct {
	current S
	next    S
	queued  bool
	entered bool
}

// Get returns the current state value.
func (st *State[S]) Get() S {
	return st.current
}

// Is reports whether the machine has entered value.
func (st *State[S]) Is(value S) bool {
	return st.entered && st.current == value
}

// Set requests a transition to value. The last request in a pass wins;
// requesting the current value again is a no-op.
func (st *State[S]) Set(value S) {
	st.next = value
	st.queued = true
}

type stateTransitioner interface {
	apply(s *Scheduler, frame *UpdateFrame) bool
}

type stateHooks[S comparable] struct {
	enter map[S][]*scheduledSystem
	exit  map[S][]*scheduledSystem
}

// apply performs a queued transition: OnExit hooks of the old value run
// first, then the value changes and OnEnter hooks of the new value run.
func (h *stateHooks[S]) apply(s *Scheduler, frame *UpdateFrame) bool {
	st := SingletonOf[State[S]](s.storage)
	if st == nil || !st.queued {
		return false
	}
	next := st.next
	st.queued = false

	if st.entered {
		if st.current == next {
			return false
		}
		s.runHooks(h.exit[st.current], frame)
	}

	st.current = next
	st.entered = true
	s.runHooks(h.enter[next], frame)
	return true
}

func hooksFor[S comparable](s *Scheduler) *stateHooks[S] {
	t := reflect.TypeFor[S]()
	if h, ok := s.states[t]; ok {
		return h.(*stateHooks[S])
	}
	h := &stateHooks[S]{
		enter: make(map[S][]*scheduledSystem),
		exit:  make(map[S][]*scheduledSystem),
	}
	s.states[t] = h
	s.stateOrder = append(s.stateOrder, h)
	return h
}

// AddState installs a state machine of type S starting at initial. The
// OnEnter hooks of initial run at the start of the next Once.
func AddState[S comparable](s *Scheduler, initial S) {
	hooksFor[S](s)
	s.storage.AddSingleton(&State[S]{next: initial, queued: true})
}

// OnEnter registers systems to run once each time the machine enters value.
func OnEnter[S comparable](s *Scheduler, value S, systems ...System) {
	h := hooksFor[S](s)
	for _, system := range systems {
		h.enter[value] = append(h.enter[value], s.prepare(system, nil))
	}
}

// OnExit registers systems to run once each time the machine leaves value.
func OnExit[S comparable](s *Scheduler, value S, systems ...System) {
	h := hooksFor[S](s)
	for _, system := range systems {
		h.exit[value] = append(h.exit[value], s.prepare(system, nil))
	}
}

// InState returns a RunCondition that holds while the machine of type S is
// in value.
func InState[S comparable](value S) RunCondition {
	return func(storage *Storage) bool {
		st := SingletonOf[State[S]](storage)
		return st != nil && st.Is(value)
	}
}
