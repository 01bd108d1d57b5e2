package ragdoll

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestAssembleJointAnchorsAtBone(t *testing.T) {
	skel := newHumanoidSkeleton(t)
	rig := NewRig(skel, zeroGravityTuning(), nil)
	if err := rig.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	// Before any step the frozen anchors resolve back to the joint bone.
	for _, link := range rig.links {
		if link.Joint == nil {
			continue
		}
		bone := skel.Node(link.Bone)
		pa, pc := link.Joint.WorldAnchors()
		if pa.Sub(bone.WorldPosition).Len() > 1e-4 {
			t.Errorf("Segment %s: parent anchor %v is off the bone at %v", link.Segment, pa, bone.WorldPosition)
		}
		if pc.Sub(bone.WorldPosition).Len() > 1e-4 {
			t.Errorf("Segment %s: child anchor %v is off the bone at %v", link.Segment, pc, bone.WorldPosition)
		}
	}
}

func TestAssembleJointCapturesRest(t *testing.T) {
	skel := newHumanoidSkeleton(t)
	rig := NewRig(skel, zeroGravityTuning(), nil)
	if err := rig.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	for _, link := range rig.links {
		if link.Joint == nil {
			continue
		}
		rel := quatPositive(link.Parent.Body.Rotation.Inverse().Mul(link.Body.Rotation).Normalize())
		if got := quatAngle(link.RestLocal, rel); got > 1e-5 {
			t.Errorf("Segment %s: rest capture off by %f rad", link.Segment, got)
		}
	}
}

func TestBuildLimitOverrides(t *testing.T) {
	skel := newHumanoidSkeleton(t)
	tn := zeroGravityTuning()
	tn.Segments[SegmentLeftLowerLeg].MinDeg = 10
	tn.Segments[SegmentLeftLowerLeg].MaxDeg = 90
	tn.Segments[SegmentHead].SwingDeg = 10

	rig := NewRig(skel, tn, nil)
	if err := rig.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	knee := rig.bySegment[SegmentLeftLowerLeg]
	if knee.Limit.Kind != JointHinge {
		t.Fatal("Expected a hinge limit on the knee")
	}
	if mgl32.Abs(knee.Limit.Min-mgl32.DegToRad(10)) > 1e-6 {
		t.Errorf("Min override not applied: %f", mgl32.RadToDeg(knee.Limit.Min))
	}
	if mgl32.Abs(knee.Limit.Max-mgl32.DegToRad(90)) > 1e-6 {
		t.Errorf("Max override not applied: %f", mgl32.RadToDeg(knee.Limit.Max))
	}
	if mgl32.Abs(knee.Limit.Axis.Len()-1) > 1e-5 {
		t.Errorf("Hinge axis should be unit length, got %f", knee.Limit.Axis.Len())
	}

	head := rig.bySegment[SegmentHead]
	if head.Limit.Kind != JointBall {
		t.Fatal("Expected a ball limit on the head")
	}
	if mgl32.Abs(head.Limit.Swing-mgl32.DegToRad(10)) > 1e-6 {
		t.Errorf("Swing override not applied: %f", mgl32.RadToDeg(head.Limit.Swing))
	}
}

func TestBuildLimitSwapsReversedRange(t *testing.T) {
	skel := newHumanoidSkeleton(t)
	tn := zeroGravityTuning()
	tn.Segments[SegmentLeftLowerLeg].MinDeg = 100
	tn.Segments[SegmentLeftLowerLeg].MaxDeg = 20

	rig := NewRig(skel, tn, nil)
	if err := rig.Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}

	knee := rig.bySegment[SegmentLeftLowerLeg]
	if knee.Limit.Min > knee.Limit.Max {
		t.Errorf("Reversed range should be normalized, got [%f, %f]",
			mgl32.RadToDeg(knee.Limit.Min), mgl32.RadToDeg(knee.Limit.Max))
	}
	if mgl32.Abs(knee.Limit.Min-mgl32.DegToRad(20)) > 1e-6 {
		t.Errorf("Expected min 20 degrees after the swap, got %f", mgl32.RadToDeg(knee.Limit.Min))
	}
}
