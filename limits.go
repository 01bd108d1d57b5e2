package ragdoll

import "github.com/go-gl/mathgl/mgl32"

const limitEngageEpsilon = 1e-5

// applyJointLimits clamps every limited link's relative orientation after the
// substeps ran. Corrections blend toward the clamped orientation instead of
// snapping; whatever still lies outside the limit plus slop after blending is
// clamped hard, so limits hold even under large impulses. An engaged
// correction also sheds most of the link's angular velocity.
func applyJointLimits(links []*Link, tuning *Tuning) {
	slop := mgl32.DegToRad(tuning.LimitSlopDeg)
	for _, link := range links {
		if link.Joint == nil || link.Body.Sleeping {
			continue
		}
		parent := link.Parent.Body
		child := link.Body
		rel := quatPositive(parent.Rotation.Inverse().Mul(child.Rotation).Normalize())

		target, engaged := clampLimit(rel, link.Limit, 0)
		if !engaged {
			continue
		}
		blended := slerpShortest(child.Rotation, parent.Rotation.Mul(target).Normalize(), tuning.LimitBlend)

		relAfter := quatPositive(parent.Rotation.Inverse().Mul(blended).Normalize())
		bounded, outside := clampLimit(relAfter, link.Limit, slop)
		if outside {
			child.Rotation = parent.Rotation.Mul(bounded).Normalize()
		} else {
			child.Rotation = blended
		}
		child.AngularVelocity = child.AngularVelocity.Mul(tuning.LimitVelocityRetain)
	}
}

func clampLimit(rel mgl32.Quat, limit Limit, slack float32) (mgl32.Quat, bool) {
	if limit.Kind == JointHinge {
		return clampHinge(rel, limit, slack)
	}
	return clampBall(rel, limit, slack)
}

// clampHinge clamps the twist of rel about the hinge axis into
// [min-slack, max+slack]. Reports whether clamping changed anything. The
// swing residue is left alone; the joint geometry keeps it small.
func clampHinge(rel mgl32.Quat, limit Limit, slack float32) (mgl32.Quat, bool) {
	swing, twist, ok := swingTwist(rel, limit.Axis)
	if !ok {
		return rel, false
	}
	angle := twistAngle(twist, limit.Axis)
	clamped := mgl32.Clamp(angle, limit.Min-slack, limit.Max+slack)
	if mgl32.Abs(clamped-angle) < limitEngageEpsilon {
		return rel, false
	}
	return swing.Mul(mgl32.QuatRotate(clamped, limit.Axis)).Normalize(), true
}

// clampBall clamps the twist about the stored reference axis symmetrically
// and rescales the swing toward identity when it exceeds the cone.
func clampBall(rel mgl32.Quat, limit Limit, slack float32) (mgl32.Quat, bool) {
	swing, twist, ok := swingTwist(rel, limit.TwistAxis)
	if !ok {
		return rel, false
	}
	engaged := false

	tAngle := twistAngle(twist, limit.TwistAxis)
	tClamped := mgl32.Clamp(tAngle, -(limit.Twist + slack), limit.Twist+slack)
	if mgl32.Abs(tClamped-tAngle) > limitEngageEpsilon {
		twist = mgl32.QuatRotate(tClamped, limit.TwistAxis)
		engaged = true
	}

	if sAngle := swingAngle(swing); sAngle > limit.Swing+slack {
		if axis, ok := safeNormalize(swing.V); ok {
			swing = mgl32.QuatRotate(limit.Swing+slack, axis)
			engaged = true
		}
	}

	if !engaged {
		return rel, false
	}
	return swing.Mul(twist).Normalize(), true
}
