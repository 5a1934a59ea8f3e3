package noise

import "fmt"

// Kind selects a noise generator.
type Kind uint8

// Noise kinds.
const (
	KindLattice1D Kind = iota
	KindLattice2D
	KindLattice3D
)

var kindNames = [...]string{
	KindLattice1D: "lattice1d",
	KindLattice2D: "lattice2d",
	KindLattice3D: "lattice3d",
}

// String returns the config name of k.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("noise.Kind(%d)", k)
}

// ParseKind resolves a config name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown noise kind %q", name)
}

// Generator returns the evaluator for k, or nil for an unknown kind.
// Callers resolve it once per job.
func (k Kind) Generator() Noise {
	switch k {
	case KindLattice1D:
		return Lattice1D{}
	case KindLattice2D:
		return Lattice2D{}
	case KindLattice3D:
		return Lattice3D{}
	}
	return nil
}
