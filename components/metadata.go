package components

import "fmt"

// MaterialKind selects the strand shading model.
type MaterialKind uint8

const (
	MaterialBasic  MaterialKind = iota // Unlit flat colour
	MaterialShader                     // Animated by the strand shader
)

// String returns the config name for a MaterialKind.
func (k MaterialKind) String() string {
	names := MaterialKindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// MaterialKindNames returns the config names for all material kinds.
// The order matches the MaterialKind constants.
func MaterialKindNames() []string {
	return []string{"basic", "shader"}
}

// ParseMaterialKind maps a config name to a MaterialKind.
func ParseMaterialKind(s string) (MaterialKind, error) {
	for i, name := range MaterialKindNames() {
		if s == name {
			return MaterialKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown material kind %q", s)
}
