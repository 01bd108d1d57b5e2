package ragdoll

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func poseTestRig(t *testing.T) *Rig {
	t.Helper()
	skel := newHumanoidSkeleton(t)
	rig := NewRig(skel, zeroGravityTuning(), nil)
	if err := rig.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	return rig
}

func TestWritePoseZeroWeightLeavesSkeleton(t *testing.T) {
	rig := poseTestRig(t)
	skel := rig.skel

	before := make([]mgl32.Quat, skel.Len())
	for i := range before {
		before[i] = skel.Node(BoneID(i)).LocalRotation
	}
	rootBefore := skel.RootPosition()

	// Scramble a body so a write would be visible.
	chest := rig.bySegment[SegmentChest]
	chest.Body.Rotation = mgl32.QuatRotate(0.5, mgl32.Vec3{1, 0, 0}).Mul(chest.Body.Rotation).Normalize()

	writePose(skel, rig.byBone, rig.rootLink, rig.rootOffset, 0)

	for i := range before {
		if skel.Node(BoneID(i)).LocalRotation != before[i] {
			t.Fatalf("Bone %d changed under zero weight", i)
		}
	}
	if skel.RootPosition() != rootBefore {
		t.Error("Root position changed under zero weight")
	}
}

func TestWritePoseFullWeightMatchesBodies(t *testing.T) {
	rig := poseTestRig(t)
	skel := rig.skel

	chest := rig.bySegment[SegmentChest]
	chest.Body.Rotation = mgl32.QuatRotate(0.3, mgl32.Vec3{1, 0, 0}).Mul(chest.Body.Rotation).Normalize()
	arm := rig.bySegment[SegmentLeftUpperArm]
	arm.Body.Rotation = mgl32.QuatRotate(-0.4, mgl32.Vec3{0, 0, 1}).Mul(arm.Body.Rotation).Normalize()
	hips := rig.rootLink
	hips.Body.Position = hips.Body.Position.Add(mgl32.Vec3{0.3, -0.2, 0.1})

	writePose(skel, rig.byBone, rig.rootLink, rig.rootOffset, 1)

	for _, link := range rig.links {
		node := skel.Node(link.Bone)
		want := link.Body.Rotation.Mul(link.BodyToBone).Normalize()
		if got := quatAngle(node.WorldRotation, want); got > 1e-3 {
			t.Errorf("Segment %s world rotation off by %f rad", link.Segment, got)
		}
	}

	wantRoot := hips.Body.Position.Add(rig.rootOffset)
	if skel.RootPosition().Sub(wantRoot).Len() > 1e-5 {
		t.Errorf("Expected root at %v, got %v", wantRoot, skel.RootPosition())
	}
}

// The single forward pass must leave the whole hierarchy consistent,
// including bones that carry no body, so a full recompute changes nothing.
func TestWritePoseKeepsHierarchyConsistent(t *testing.T) {
	rig := poseTestRig(t)
	skel := rig.skel

	for _, seg := range []Segment{SegmentSpine, SegmentLeftUpperLeg, SegmentRightLowerArm} {
		link := rig.bySegment[seg]
		link.Body.Rotation = mgl32.QuatRotate(0.2, mgl32.Vec3{0, 0, 1}).Mul(link.Body.Rotation).Normalize()
	}
	writePose(skel, rig.byBone, rig.rootLink, rig.rootOffset, 1)

	pos := make([]mgl32.Vec3, skel.Len())
	rot := make([]mgl32.Quat, skel.Len())
	for i := range pos {
		node := skel.Node(BoneID(i))
		pos[i] = node.WorldPosition
		rot[i] = node.WorldRotation
	}

	skel.UpdateWorldTransforms()

	for i := range pos {
		node := skel.Node(BoneID(i))
		if node.WorldPosition.Sub(pos[i]).Len() > 1e-4 {
			t.Errorf("Bone %s world position was stale after the pose pass", node.Name)
		}
		if quatAngle(node.WorldRotation, rot[i]) > 1e-4 {
			t.Errorf("Bone %s world rotation was stale after the pose pass", node.Name)
		}
	}
}

func TestWritePoseBlendsHalfway(t *testing.T) {
	rig := poseTestRig(t)
	skel := rig.skel

	hips := rig.rootLink
	target := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 0, 1})
	hips.Body.Rotation = target.Mul(hips.Body.Rotation).Normalize()
	rootStart := skel.RootPosition()
	hips.Body.Position = hips.Body.Position.Add(mgl32.Vec3{0.4, 0, 0})

	writePose(skel, rig.byBone, rig.rootLink, rig.rootOffset, 0.5)

	// The hips bone starts at identity world rotation, so half weight lands
	// half the rotation.
	node := skel.Node(hips.Bone)
	if got := quatAngle(node.WorldRotation, target); mgl32.Abs(got-0.2) > 2e-2 {
		t.Errorf("Expected about 0.2 rad left to the target, got %f", got)
	}

	wantRoot := lerpVec3(rootStart, hips.Body.Position.Add(rig.rootOffset), 0.5)
	if skel.RootPosition().Sub(wantRoot).Len() > 1e-5 {
		t.Errorf("Expected root blended to %v, got %v", wantRoot, skel.RootPosition())
	}
}
