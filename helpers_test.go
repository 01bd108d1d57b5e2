package ragdoll

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type testBone struct {
	name   string
	parent string
	world  mgl32.Vec3
}

// humanoidBones is a T-pose bind layout with identity bone rotations, so the
// world positions double as the source for the local offsets.
var humanoidBones = []testBone{
	{"hips", "", mgl32.Vec3{0, 0.95, 0}},
	{"spine", "hips", mgl32.Vec3{0, 1.05, 0}},
	{"chest", "spine", mgl32.Vec3{0, 1.20, 0}},
	{"neck", "chest", mgl32.Vec3{0, 1.45, 0}},
	{"head", "neck", mgl32.Vec3{0, 1.53, 0}},
	{"leftUpperArm", "chest", mgl32.Vec3{0.18, 1.40, 0}},
	{"leftLowerArm", "leftUpperArm", mgl32.Vec3{0.44, 1.40, 0}},
	{"leftHand", "leftLowerArm", mgl32.Vec3{0.68, 1.40, 0}},
	{"rightUpperArm", "chest", mgl32.Vec3{-0.18, 1.40, 0}},
	{"rightLowerArm", "rightUpperArm", mgl32.Vec3{-0.44, 1.40, 0}},
	{"rightHand", "rightLowerArm", mgl32.Vec3{-0.68, 1.40, 0}},
	{"leftUpperLeg", "hips", mgl32.Vec3{0.09, 0.93, 0}},
	{"leftLowerLeg", "leftUpperLeg", mgl32.Vec3{0.09, 0.51, 0}},
	{"leftFoot", "leftLowerLeg", mgl32.Vec3{0.09, 0.11, 0}},
	{"leftToes", "leftFoot", mgl32.Vec3{0.09, 0.04, 0.12}},
	{"rightUpperLeg", "hips", mgl32.Vec3{-0.09, 0.93, 0}},
	{"rightLowerLeg", "rightUpperLeg", mgl32.Vec3{-0.09, 0.51, 0}},
	{"rightFoot", "rightLowerLeg", mgl32.Vec3{-0.09, 0.11, 0}},
	{"rightToes", "rightFoot", mgl32.Vec3{-0.09, 0.04, 0.12}},
}

func buildSkeleton(t *testing.T, include func(string) bool) *Skeleton {
	t.Helper()
	parents := make(map[string]string, len(humanoidBones))
	worlds := make(map[string]mgl32.Vec3, len(humanoidBones))
	for _, b := range humanoidBones {
		parents[b.name] = b.parent
		worlds[b.name] = b.world
	}
	skel := NewSkeleton()
	ids := make(map[string]BoneID)
	for _, b := range humanoidBones {
		if !include(b.name) {
			continue
		}
		// Reattach to the nearest included ancestor when the direct parent
		// is not part of this skeleton.
		parentName := b.parent
		for parentName != "" && !include(parentName) {
			parentName = parents[parentName]
		}
		parent := InvalidBone
		parentWorld := mgl32.Vec3{}
		if parentName != "" {
			parent = ids[parentName]
			parentWorld = worlds[parentName]
		}
		id, err := skel.AddBone(b.name, parent, b.world.Sub(parentWorld), mgl32.QuatIdent())
		if err != nil {
			t.Fatalf("AddBone(%s) failed: %v", b.name, err)
		}
		ids[b.name] = id
	}
	return skel
}

func newHumanoidSkeleton(t *testing.T, skip ...string) *Skeleton {
	t.Helper()
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	return buildSkeleton(t, func(name string) bool { return !skipped[name] })
}

func newPartialSkeleton(t *testing.T, keep ...string) *Skeleton {
	t.Helper()
	kept := make(map[string]bool, len(keep))
	for _, name := range keep {
		kept[name] = true
	}
	return buildSkeleton(t, func(name string) bool { return kept[name] })
}

// zeroGravityTuning isolates joint and limit behavior: no gravity, no
// ground, muscles off, no blend-in.
func zeroGravityTuning() *Tuning {
	tn := DefaultTuning()
	tn.Gravity = mgl32.Vec3{}
	tn.GroundEnabled = false
	tn.Muscle.Enabled = false
	tn.BlendInSeconds = 0
	return &tn
}

// quatAngle is the absolute rotation angle between two orientations.
func quatAngle(a, b mgl32.Quat) float32 {
	d := mgl32.Abs(a.Normalize().Dot(b.Normalize()))
	if d > 1 {
		d = 1
	}
	return 2 * float32(math.Acos(float64(d)))
}
