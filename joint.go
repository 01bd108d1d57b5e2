package ragdoll

import "github.com/go-gl/mathgl/mgl32"

type JointHandle string

const (
	jointSlop = 1e-4
	// anchor separation past this wakes both sides of a sleeping pair
	jointWakeDistance = 0.005
)

// Joint is a soft ball-socket constraint between a parent and a child body.
// Anchors are frozen in each body's local frame when the joint is created and
// never recomputed afterwards. Stiffness is the fraction of positional error
// removed per substep; damping is the decay rate (1/s) of the anchor points'
// relative velocity.
type Joint struct {
	Handle JointHandle

	parent *RigidBody
	child  *RigidBody

	anchorParent mgl32.Vec3
	anchorChild  mgl32.Vec3

	stiffness float32
	damping   float32
}

func (j *Joint) Parent() *RigidBody { return j.parent }
func (j *Joint) Child() *RigidBody  { return j.child }

// AnchorParent returns the frozen anchor in the parent body's local frame.
func (j *Joint) AnchorParent() mgl32.Vec3 { return j.anchorParent }

// AnchorChild returns the frozen anchor in the child body's local frame.
func (j *Joint) AnchorChild() mgl32.Vec3 { return j.anchorChild }

// WorldAnchors rotates the frozen local anchors into world space at the
// bodies' current poses.
func (j *Joint) WorldAnchors() (mgl32.Vec3, mgl32.Vec3) {
	p := j.parent.Position.Add(j.parent.Rotation.Rotate(j.anchorParent))
	c := j.child.Position.Add(j.child.Rotation.Rotate(j.anchorChild))
	return p, c
}

// solvePosition removes a stiffness-scaled share of the anchor separation,
// distributing the correction by generalized inverse mass and applying the
// angular part as a first-order quaternion delta.
func (j *Joint) solvePosition(h float32) {
	if j.parent.Sleeping && j.child.Sleeping {
		return
	}
	pa, pc := j.WorldAnchors()
	err := pc.Sub(pa)
	dist := err.Len()
	if dist < jointSlop {
		return
	}
	if dist > jointWakeDistance {
		j.parent.Wake()
		j.child.Wake()
	}
	n := err.Mul(1 / dist)

	ra := pa.Sub(j.parent.Position)
	rc := pc.Sub(j.child.Position)
	w := j.parent.generalizedInvMass(ra, n) + j.child.generalizedInvMass(rc, n)
	if w <= 0 {
		return
	}
	p := n.Mul(j.stiffness * dist / w)
	j.parent.applyCorrection(p, ra)
	j.child.applyCorrection(p.Mul(-1), rc)
}

// solveVelocity damps the relative velocity of the anchor points; the decay
// coefficient follows the damped spring form 1-exp(-damping*h).
func (j *Joint) solveVelocity(h float32) {
	if j.damping <= 0 || (j.parent.Sleeping && j.child.Sleeping) {
		return
	}
	pa, pc := j.WorldAnchors()
	vRel := j.child.velocityAt(pc).Sub(j.parent.velocityAt(pa))
	speed := vRel.Len()
	if speed < vecEpsilon {
		return
	}
	n := vRel.Mul(1 / speed)

	ra := pa.Sub(j.parent.Position)
	rc := pc.Sub(j.child.Position)
	w := j.parent.generalizedInvMass(ra, n) + j.child.generalizedInvMass(rc, n)
	if w <= 0 {
		return
	}
	wCoef := 1 - expDecay(j.damping, h)
	impulse := vRel.Mul(-wCoef / w)
	j.child.applyImpulseAt(impulse, pc)
	j.parent.applyImpulseAt(impulse.Mul(-1), pa)
}

// generalizedInvMass is the effective inverse mass seen by an impulse along n
// acting at offset r from the center of mass.
func (b *RigidBody) generalizedInvMass(r, n mgl32.Vec3) float32 {
	rn := r.Cross(n)
	return b.invMass + b.invInertia*rn.LenSqr()
}

// applyCorrection shifts position and orientation directly by an impulse-like
// correction vector acting at offset r from the center of mass.
func (b *RigidBody) applyCorrection(p, r mgl32.Vec3) {
	b.Position = b.Position.Add(p.Mul(b.invMass))
	b.Rotation = smallAngleDelta(b.Rotation, r.Cross(p).Mul(b.invInertia))
}
