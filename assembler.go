package ragdoll

import "github.com/go-gl/mathgl/mgl32"

// jointClassDef carries the soft joint baselines of one joint class.
type jointClassDef struct {
	stiffness float32 // fraction of anchor error corrected per substep
	damping   float32 // 1/s decay of relative anchor velocity
}

var jointClassDefs = [2]jointClassDef{
	jointClassSpine: {stiffness: 0.9, damping: 8},
	jointClassLimb:  {stiffness: 0.7, damping: 4},
}

// assembleJoint connects a child link to its parent link. One world-space
// joint point, the child's bone position at build time, becomes the two
// frozen local anchors; the rest orientation is captured for the muscles and
// the limit axes are resolved into the parent body's local frame.
func assembleJoint(world *World, parent, child *Link, skel *Skeleton, tuning *Tuning) {
	def := &segmentDefs[child.Segment]
	bone := skel.Node(child.Bone)

	class := jointClassDefs[def.joint]
	stiffness := class.stiffness * tuning.JointStiffnessScale
	damping := class.damping * tuning.JointDampingScale

	child.Parent = parent
	child.Joint = world.AddJoint(parent.Body, child.Body, bone.WorldPosition, stiffness, damping)

	rest := parent.Body.Rotation.Inverse().Mul(child.Body.Rotation).Normalize()
	child.RestLocal = quatPositive(rest)

	parentBone := skel.Node(parent.Bone)
	child.Limit = buildLimit(def, parent.Body, parentBone, child.RestLocal, tuning.segment(child.Segment))
}

// buildLimit resolves a segment's limit into the parent body's local frame,
// where the limiter measures relative orientation. The hinge axis hint lives
// in the parent bone's bind frame; the ball twist axis is the child's
// rest-pose long axis.
func buildLimit(def *segmentDef, parentBody *RigidBody, parentBone *BoneNode, rest mgl32.Quat, ov SegmentTuning) Limit {
	limit := Limit{Kind: def.kind}
	switch def.kind {
	case JointHinge:
		axisWorld := parentBone.WorldRotation.Rotate(def.hingeAxis)
		axis := parentBody.Rotation.Inverse().Rotate(axisWorld)
		if n, ok := safeNormalize(axis); ok {
			limit.Axis = n
		} else {
			limit.Axis = localUp
		}
		minDeg := def.minDeg
		if ov.MinDeg != 0 {
			minDeg = ov.MinDeg
		}
		maxDeg := def.maxDeg
		if ov.MaxDeg != 0 {
			maxDeg = ov.MaxDeg
		}
		limit.Min = mgl32.DegToRad(minDeg)
		limit.Max = mgl32.DegToRad(maxDeg)
		if limit.Min > limit.Max {
			limit.Min, limit.Max = limit.Max, limit.Min
		}
	default:
		swingDeg := def.swingDeg
		if ov.SwingDeg != 0 {
			swingDeg = ov.SwingDeg
		}
		twistDeg := def.twistDeg
		if ov.TwistDeg != 0 {
			twistDeg = ov.TwistDeg
		}
		limit.Swing = mgl32.DegToRad(swingDeg)
		limit.Twist = mgl32.DegToRad(twistDeg)
		limit.TwistAxis = rest.Rotate(localUp)
	}
	return limit
}
