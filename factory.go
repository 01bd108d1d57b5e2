package ragdoll

// classDef carries the factory baselines of one body class.
type classDef struct {
	density        float32
	friction       float32
	linearDamping  float32
	angularDamping float32
}

var bodyClassDefs = [3]classDef{
	ClassTorso:     {density: 1000, friction: 0.6, linearDamping: 0.3, angularDamping: 1.2},
	ClassLimb:      {density: 950, friction: 0.5, linearDamping: 0.25, angularDamping: 1.0},
	ClassExtremity: {density: 900, friction: 0.8, linearDamping: 0.2, angularDamping: 0.8},
}

// buildBody spawns the rigid body for a derived segment spec: class-table
// density, friction and damping, zero restitution, the segment's collision
// group, continuous collision on every body. Returns nil when no world is
// available.
func buildBody(world *World, spec SegmentSpec, tuning *Tuning) *RigidBody {
	if world == nil {
		return nil
	}
	class := bodyClassDefs[spec.Class]
	scale := tuning.DampingScale
	if scale <= 0 {
		scale = 1
	}
	return world.AddBody(BodyDef{
		Shape:          spec.Shape,
		Radius:         spec.Radius,
		HalfHeight:     spec.HalfHeight,
		Position:       spec.Position,
		Rotation:       spec.Rotation,
		Density:        class.density,
		Friction:       class.friction,
		Restitution:    0,
		LinearDamping:  class.linearDamping * scale,
		AngularDamping: class.angularDamping * scale,
		Group:          spec.Group,
		CCD:            true,
	})
}
