package shapes

import "fmt"

// Kind selects a shape.
type Kind uint8

// Shape kinds.
const (
	KindPlane Kind = iota
	KindSphere
	KindTorus
)

var kinds = [...]struct {
	name string
	fn   Func
}{
	KindPlane:  {"plane", Plane},
	KindSphere: {"sphere", Sphere},
	KindTorus:  {"torus", Torus},
}

// String returns the config name of k.
func (k Kind) String() string {
	if int(k) < len(kinds) {
		return kinds[k].name
	}
	return fmt.Sprintf("shapes.Kind(%d)", k)
}

// ParseKind resolves a config name.
func ParseKind(name string) (Kind, error) {
	for k, s := range kinds {
		if s.name == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Func returns the generator for k, or nil for an unknown kind.
func (k Kind) Func() Func {
	if int(k) < len(kinds) {
		return kinds[k].fn
	}
	return nil
}
