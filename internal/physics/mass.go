package physics

import "github.com/go-gl/mathgl/mgl32"

// MassDistribution says whether mass fills the volume or sits on its surface.
type MassDistribution int

const (
	DistributionSolid MassDistribution = iota
	DistributionShell
)

// MassType says whether PrimitiveProperties.Value is a mass or a density.
type MassType int

const (
	MassTypeMass MassType = iota
	MassTypeDensity
)

type PrimitiveProperties struct {
	Distribution MassDistribution
	Type         MassType
	Value        float32
}

// MassProperties computes mass, centre of mass, inertia about the skin
// origin and inertia about the centre of mass. Inertia is that of the
// primitives' combined local bounding box. A skin without primitives
// yields zero mass.
func (s *CollisionSkin) MassProperties(props PrimitiveProperties) (mass float32, com mgl32.Vec3, inertia, inertiaCoM mgl32.Mat3) {
	if len(s.prims) == 0 {
		return 0, mgl32.Vec3{}, mgl32.Mat3{}, mgl32.Mat3{}
	}

	var volume float32
	bounds := emptyAABB()
	for _, sp := range s.prims {
		v := sp.prim.Volume()
		volume += v
		com = com.Add(sp.prim.Centre().Mul(v))
		bounds = bounds.Union(sp.prim.Bounds(s.offset, mgl32.Ident4()))
	}
	if volume > 0 {
		com = com.Mul(1 / volume)
	} else {
		com = bounds.Centre().Sub(s.offset)
	}

	switch props.Type {
	case MassTypeDensity:
		mass = props.Value * volume
	default:
		mass = props.Value
	}

	size := bounds.Size()
	x2, y2, z2 := size.X()*size.X(), size.Y()*size.Y(), size.Z()*size.Z()
	k := mass / 12
	if props.Distribution == DistributionShell {
		k = mass / 6
	}
	inertiaCoM = mgl32.Diag3(mgl32.Vec3{k * (y2 + z2), k * (x2 + z2), k * (x2 + y2)})

	// parallel axis: I = Icm + m(|d|²E - d⊗d)
	d := com
	dd := d.Dot(d)
	var shift mgl32.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := -d[r] * d[c]
			if r == c {
				v += dd
			}
			shift.Set(r, c, mass*v)
		}
	}
	inertia = inertiaCoM.Add(shift)
	return mass, com, inertia, inertiaCoM
}
