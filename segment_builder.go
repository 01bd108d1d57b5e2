package ragdoll

import "github.com/go-gl/mathgl/mgl32"

// SegmentSpec is the collision proxy derived for one segment: capsule or
// sphere geometry plus the world transform it spawns at.
type SegmentSpec struct {
	Segment Segment
	Bone    BoneID
	Class   BodyClass
	Group   CollisionGroup

	Shape      ColliderShape
	Radius     float32
	HalfHeight float32
	Length     float32

	Position mgl32.Vec3
	Rotation mgl32.Quat
}

const (
	minSegmentLength = 0.01
	maxRadiusRatio   = 0.35
	sphereEpsilon    = 5e-3
)

// BuildSegment derives the collision proxy for seg from the skeleton's
// current pose. Reports false when the segment's source bone is missing; the
// rig then simply runs without that body.
func BuildSegment(skel *Skeleton, seg Segment, tuning *Tuning) (SegmentSpec, bool) {
	if skel == nil || !seg.Valid() {
		return SegmentSpec{}, false
	}
	def := &segmentDefs[seg]
	boneID, ok := skel.Bone(def.bone)
	if !ok {
		return SegmentSpec{}, false
	}
	bone := skel.Node(boneID)
	ov := tuning.segment(seg)

	dir, length := segmentAxis(skel, bone, def)

	length *= scaleOr(ov.LengthScale)
	if length < minSegmentLength {
		length = minSegmentLength
	}

	radius := def.radius * scaleOr(ov.RadiusScale)
	if max := length * maxRadiusRatio; radius > max {
		radius = max
	}

	halfHeight := length/2 - radius
	if halfHeight < 0 {
		halfHeight = 0
	}
	shape := CapsuleCollider
	if halfHeight < sphereEpsilon {
		shape = SphereCollider
		halfHeight = 0
	}

	rotation := mgl32.QuatBetweenVectors(localUp, dir)
	if off := ov.RotationOffsetDeg; off != (mgl32.Vec3{}) {
		rotation = rotation.Mul(mgl32.AnglesToQuat(
			mgl32.DegToRad(off.X()),
			mgl32.DegToRad(off.Y()),
			mgl32.DegToRad(off.Z()),
			mgl32.XYZ))
	}
	rotation = rotation.Normalize()

	center := bone.WorldPosition.Add(dir.Mul(length / 2))
	center = center.Add(bone.WorldRotation.Rotate(ov.Offset))

	return SegmentSpec{
		Segment:    seg,
		Bone:       boneID,
		Class:      def.class,
		Group:      def.group,
		Shape:      shape,
		Radius:     radius,
		HalfHeight: halfHeight,
		Length:     length,
		Position:   center,
		Rotation:   rotation,
	}, true
}

// segmentAxis picks the capsule direction and unscaled length for a bone.
// Priority: toward the child bone, then the terminal axis hint rotated into
// the bone's pose, then away from the parent bone, then world up. The hint
// and parent fallbacks use the configured fallback length.
func segmentAxis(skel *Skeleton, bone *BoneNode, def *segmentDef) (mgl32.Vec3, float32) {
	if def.child != "" {
		if childID, ok := skel.Bone(def.child); ok {
			span := skel.Node(childID).WorldPosition.Sub(bone.WorldPosition)
			if dir, ok := safeNormalize(span); ok {
				return dir, span.Len()
			}
		}
	}
	if dir, ok := safeNormalize(bone.WorldRotation.Rotate(def.axisHint)); ok {
		return dir, def.fallback
	}
	if bone.Parent != InvalidBone {
		span := bone.WorldPosition.Sub(skel.Node(bone.Parent).WorldPosition)
		if dir, ok := safeNormalize(span); ok {
			return dir, def.fallback
		}
	}
	return localUp, def.fallback
}
