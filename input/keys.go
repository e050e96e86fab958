package input

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// ParseKey resolves a key name as printed by ebiten.Key.String, ignoring
// case and an optional "Key" prefix: "O", "o" and "KeyO" all give
// ebiten.KeyO.
func ParseKey(name string) (ebiten.Key, error) {
	trimmed := strings.TrimSpace(name)
	for _, candidate := range []string{trimmed, strings.TrimPrefix(trimmed, "Key")} {
		for k := ebiten.Key(0); k <= ebiten.KeyMax; k++ {
			if strings.EqualFold(k.String(), candidate) {
				return k, nil
			}
		}
	}
	return 0, fmt.Errorf("input: unknown key %q", name)
}

// ParseBindings resolves configured key names per action name. actions maps
// each accepted action name to its value.
func ParseBindings[A comparable](actions map[string]A, names map[string][]string) ([]Binding[A], error) {
	actionNames := make([]string, 0, len(names))
	for name := range names {
		actionNames = append(actionNames, name)
	}
	slices.Sort(actionNames)

	var bindings []Binding[A]
	for _, name := range actionNames {
		action, ok := actions[name]
		if !ok {
			return nil, fmt.Errorf("input: unknown action %q", name)
		}
		for _, keyName := range names[name] {
			key, err := ParseKey(keyName)
			if err != nil {
				return nil, fmt.Errorf("input: action %s: %w", name, err)
			}
			bindings = append(bindings, Bind(action, key))
		}
	}
	return bindings, nil
}
