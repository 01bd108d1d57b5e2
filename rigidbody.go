package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type ColliderShape int

const (
	CapsuleCollider ColliderShape = iota
	SphereCollider
)

type BodyHandle string

// RigidBody is one simulated body. Fields are plain state the solver reads
// and writes every substep; invMass and invInertia are derived once when the
// body is added to a world.
type RigidBody struct {
	Handle BodyHandle

	Shape      ColliderShape
	Radius     float32
	HalfHeight float32

	Position        mgl32.Vec3
	Rotation        mgl32.Quat
	Velocity        mgl32.Vec3
	AngularVelocity mgl32.Vec3

	Mass         float32
	GravityScale float32

	LinearDamping  float32
	AngularDamping float32
	Friction       float32
	Restitution    float32

	Group CollisionGroup
	CCD   bool

	Sleeping bool
	IdleTime float32

	invMass    float32
	inertia    float32
	invInertia float32
	prevPos    mgl32.Vec3
}

// computeMass derives mass and a scalar moment of inertia from the collider
// volume at the given density. The inertia is the transverse moment of an
// equivalent solid cylinder; anisotropy is not modeled.
func (b *RigidBody) computeMass(density float32) {
	r := b.Radius
	switch b.Shape {
	case SphereCollider:
		b.Mass = density * (4.0 / 3.0) * math.Pi * r * r * r
		b.inertia = 0.4 * b.Mass * r * r
	default:
		full := 2 * (b.HalfHeight + r)
		b.Mass = density * math.Pi * r * r * (2*b.HalfHeight + (4.0/3.0)*r)
		b.inertia = b.Mass * (3*r*r + full*full) / 12
	}
	if b.Mass < 1e-4 {
		b.Mass = 1e-4
	}
	if b.inertia < 1e-6 {
		b.inertia = 1e-6
	}
	b.invMass = 1 / b.Mass
	b.invInertia = 1 / b.inertia
}

// Wake clears sleep bookkeeping.
func (b *RigidBody) Wake() {
	b.Sleeping = false
	b.IdleTime = 0
}

// ApplyImpulse adds an instantaneous change of momentum at the center of
// mass and wakes the body.
func (b *RigidBody) ApplyImpulse(impulse mgl32.Vec3) {
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	b.Wake()
}

// ApplyAngularImpulse adds an instantaneous change of angular momentum and
// wakes the body.
func (b *RigidBody) ApplyAngularImpulse(impulse mgl32.Vec3) {
	b.AngularVelocity = b.AngularVelocity.Add(impulse.Mul(b.invInertia))
	b.Wake()
}

// applyImpulseAt adds an impulse acting at a world point, producing both
// linear and angular velocity change.
func (b *RigidBody) applyImpulseAt(impulse, point mgl32.Vec3) {
	b.Velocity = b.Velocity.Add(impulse.Mul(b.invMass))
	r := point.Sub(b.Position)
	b.AngularVelocity = b.AngularVelocity.Add(r.Cross(impulse).Mul(b.invInertia))
}

// velocityAt is the velocity of a world point rigidly attached to the body.
func (b *RigidBody) velocityAt(point mgl32.Vec3) mgl32.Vec3 {
	return b.Velocity.Add(b.AngularVelocity.Cross(point.Sub(b.Position)))
}

// endpoints returns the world centers of the two capsule caps; both equal the
// position for spheres.
func (b *RigidBody) endpoints() (mgl32.Vec3, mgl32.Vec3) {
	if b.Shape == SphereCollider || b.HalfHeight <= 0 {
		return b.Position, b.Position
	}
	axis := b.Rotation.Rotate(localUp).Mul(b.HalfHeight)
	return b.Position.Add(axis), b.Position.Sub(axis)
}

func (b *RigidBody) bounds() aabb {
	e0, e1 := b.endpoints()
	r := mgl32.Vec3{b.Radius, b.Radius, b.Radius}
	lo := mgl32.Vec3{min(e0.X(), e1.X()), min(e0.Y(), e1.Y()), min(e0.Z(), e1.Z())}
	hi := mgl32.Vec3{max(e0.X(), e1.X()), max(e0.Y(), e1.Y()), max(e0.Z(), e1.Z())}
	return aabb{Min: lo.Sub(r), Max: hi.Add(r)}
}

// integrate advances the body one substep: gravity, exponential damping,
// semi-implicit Euler position update, first-order quaternion update.
func (b *RigidBody) integrate(h float32, gravity mgl32.Vec3) {
	if b.Sleeping {
		return
	}
	b.prevPos = b.Position
	b.Velocity = b.Velocity.Add(gravity.Mul(h * b.GravityScale))
	if b.LinearDamping > 0 {
		b.Velocity = b.Velocity.Mul(expDecay(b.LinearDamping, h))
	}
	if b.AngularDamping > 0 {
		b.AngularVelocity = b.AngularVelocity.Mul(expDecay(b.AngularDamping, h))
	}
	b.Position = b.Position.Add(b.Velocity.Mul(h))
	angVelQuat := mgl32.Quat{W: 0, V: b.AngularVelocity.Mul(0.5 * h)}
	b.Rotation = b.Rotation.Add(angVelQuat.Mul(b.Rotation)).Normalize()
}

func expDecay(rate, h float32) float32 {
	return float32(math.Exp(float64(-rate * h)))
}
