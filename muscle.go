package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// maxStableAngle keeps the muscle error short of a half turn, where the
// axis-angle extraction flips sign between frames.
const maxStableAngle = float32(math.Pi) - 1e-3

// applyMuscles drives every jointed link toward its captured rest orientation
// with a PD torque, applied as equal and opposite angular impulses so the
// pair adds no net angular momentum. Impulses are capped per frame, and a
// sleeping side is left untouched; muscles never wake a body.
func applyMuscles(links []*Link, tuning *Tuning, dt float32) {
	if !tuning.Muscle.Enabled || dt <= 0 {
		return
	}
	for _, link := range links {
		if link.Joint == nil || link.Weight <= 0 {
			continue
		}
		parent := link.Parent.Body
		child := link.Body
		if parent.Sleeping && child.Sleeping {
			continue
		}

		rel := quatPositive(parent.Rotation.Inverse().Mul(child.Rotation).Normalize())
		errQ := quatPositive(rel.Inverse().Mul(link.RestLocal).Normalize())
		axisLocal, angle, ok := axisAngle(errQ)
		if !ok {
			continue
		}
		angle = min(angle, maxStableAngle)

		axis := child.Rotation.Rotate(axisLocal)
		axisVel := child.AngularVelocity.Sub(parent.AngularVelocity).Dot(axis)

		kp := tuning.Muscle.Stiffness * link.Weight
		kd := tuning.Muscle.Damping * link.Weight
		maxTorque := tuning.Muscle.MaxTorque * link.Weight
		torque := mgl32.Clamp(kp*angle-kd*axisVel, -maxTorque, maxTorque)

		frameCap := tuning.Muscle.ImpulseCapFraction * maxTorque * dt
		impulse := mgl32.Clamp(torque*dt, -frameCap, frameCap)

		if !child.Sleeping {
			child.AngularVelocity = child.AngularVelocity.Add(axis.Mul(impulse * child.invInertia))
		}
		if !parent.Sleeping {
			parent.AngularVelocity = parent.AngularVelocity.Sub(axis.Mul(impulse * parent.invInertia))
		}
	}
}
