// Package input binds raw keys to game actions and tracks, per entity, which
// actions are held.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
)

// KeyReader reports whether a key is held down.
type KeyReader interface {
	IsKeyPressed(key ebiten.Key) bool
}

// EbitenKeys reads the live keyboard.
type EbitenKeys struct{}

func (EbitenKeys) IsKeyPressed(key ebiten.Key) bool {
	return ebiten.IsKeyPressed(key)
}

// Binding ties one key to one action.
type Binding[A comparable] struct {
	Action A
	Key    ebiten.Key
}

// Bind returns the binding of key to action.
func Bind[A comparable](action A, key ebiten.Key) Binding[A] {
	return Binding[A]{Action: action, Key: key}
}

// InputMap is the component holding an entity's key bindings. An action may
// have several keys and a key may trigger several actions.
type InputMap[A comparable] struct {
	bindings []Binding[A]
}

// NewInputMap returns a map holding bindings.
func NewInputMap[A comparable](bindings ...Binding[A]) InputMap[A] {
	return InputMap[A]{bindings: bindings}
}

// Insert adds key as another trigger of action.
func (m *InputMap[A]) Insert(action A, key ebiten.Key) {
	m.bindings = append(m.bindings, Bind(action, key))
}

// Keys returns the keys bound to action.
func (m *InputMap[A]) Keys(action A) []ebiten.Key {
	var keys []ebiten.Key
	for _, b := range m.bindings {
		if b.Action == action {
			keys = append(keys, b.Key)
		}
	}
	return keys
}

// Bindings returns every binding in insertion order.
func (m *InputMap[A]) Bindings() []Binding[A] {
	return m.bindings
}

// ActionState is the component recording which actions are held this frame
// and which were held the frame before. The zero value is ready to use.
type ActionState[A comparable] struct {
	pressed  map[A]bool
	previous map[A]bool
}

// Pressed reports whether any key of action is held this frame.
func (s *ActionState[A]) Pressed(action A) bool {
	return s.pressed[action]
}

// JustPressed reports whether action is held now but was not last frame.
func (s *ActionState[A]) JustPressed(action A) bool {
	return s.pressed[action] && !s.previous[action]
}

// JustReleased reports whether action was held last frame but is not now.
func (s *ActionState[A]) JustReleased(action A) bool {
	return !s.pressed[action] && s.previous[action]
}

// Update samples every bound key of m.
func (s *ActionState[A]) Update(m *InputMap[A], keys KeyReader) {
	s.previous, s.pressed = s.pressed, s.previous
	if s.pressed == nil {
		s.pressed = make(map[A]bool)
	}
	clear(s.pressed)

	for _, b := range m.bindings {
		if keys.IsKeyPressed(b.Key) {
			s.pressed[b.Action] = true
		}
	}
}

// UpdateSystem refreshes the ActionState of every entity with an InputMap.
type UpdateSystem[A comparable] struct {
	Entities ecs.Query[struct {
		*InputMap[A]
		*ActionState[A]
	}]

	keys KeyReader
}

func NewUpdateSystem[A comparable](keys KeyReader) *UpdateSystem[A] {
	return &UpdateSystem[A]{keys: keys}
}

func (s *UpdateSystem[A]) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Entities.Values() {
		e.ActionState.Update(e.InputMap, s.keys)
	}
}

// Plugin registers the input components for action type A and an update
// system that runs before systems added after the plugin.
type Plugin[A comparable] struct {
	// Keys defaults to EbitenKeys.
	Keys KeyReader
}

func (p Plugin[A]) Build(a *app.App) {
	keys := p.Keys
	if keys == nil {
		keys = EbitenKeys{}
	}

	ecs.RegisterComponent[InputMap[A]](a.Registry)
	ecs.RegisterComponent[ActionState[A]](a.Registry)
	a.AddSystems(NewUpdateSystem[A](keys))
}
