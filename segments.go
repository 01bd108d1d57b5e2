package ragdoll

import "github.com/go-gl/mathgl/mgl32"

// Segment identifies one anatomical body part of the ragdoll. The enum order
// is parent-before-child, so iterating segments in order always visits a
// segment's anatomical parent first. Segment values index the per-segment
// tables and the tuning override array.
type Segment int

const (
	SegmentHips Segment = iota
	SegmentSpine
	SegmentChest
	SegmentNeck
	SegmentHead
	SegmentLeftUpperArm
	SegmentLeftLowerArm
	SegmentLeftHand
	SegmentRightUpperArm
	SegmentRightLowerArm
	SegmentRightHand
	SegmentLeftUpperLeg
	SegmentLeftLowerLeg
	SegmentLeftFoot
	SegmentRightUpperLeg
	SegmentRightLowerLeg
	SegmentRightFoot
	SegmentCount
)

const SegmentNone Segment = -1

func (s Segment) Valid() bool { return s >= 0 && s < SegmentCount }

// String returns the humanoid bone name the segment maps to.
func (s Segment) String() string {
	if !s.Valid() {
		return "invalid"
	}
	return segmentDefs[s].bone
}

// BodyClass groups segments for the factory's density, friction and damping
// baselines.
type BodyClass int

const (
	ClassTorso BodyClass = iota
	ClassLimb
	ClassExtremity
)

// CollisionGroup filters self collisions: bodies sharing a non-zero group
// never collide with each other. GroupNone collides with everything.
type CollisionGroup uint8

const (
	GroupNone CollisionGroup = iota
	GroupTorso
	GroupLeftArm
	GroupRightArm
	GroupLeftLeg
	GroupRightLeg
)

type JointKind int

const (
	JointBall JointKind = iota
	JointHinge
)

// Limit bounds a body's orientation relative to its parent body. Kind selects
// the fields that apply: hinge limits use Axis/Min/Max, ball limits use
// Swing/Twist/TwistAxis. Axes live in the parent body's local frame, angles
// are radians.
type Limit struct {
	Kind JointKind

	Axis mgl32.Vec3
	Min  float32
	Max  float32

	Swing     float32
	Twist     float32
	TwistAxis mgl32.Vec3
}

// jointClass selects the soft joint stiffness baseline. Spine joints hold
// the torso together and are stiffer than limb joints.
type jointClass int

const (
	jointClassSpine jointClass = iota
	jointClassLimb
)

type segmentDef struct {
	bone   string
	parent Segment
	child  string // bone the capsule points at; "" for terminal segments
	class  BodyClass
	group  CollisionGroup
	joint  jointClass

	radius   float32
	fallback float32    // capsule length when no child bone exists
	axisHint mgl32.Vec3 // terminal direction hint in the bone's bind frame

	kind           JointKind
	hingeAxis      mgl32.Vec3 // bend axis hint in the parent bone's bind frame
	minDeg, maxDeg float32
	swingDeg       float32
	twistDeg       float32

	muscle float32
}

// segmentDefs is the static anatomy table. Bone names follow the VRM humanoid
// naming; limits are conservative anatomical defaults in degrees and can be
// overridden per segment through Tuning.
var segmentDefs = [SegmentCount]segmentDef{
	SegmentHips: {
		bone: "hips", parent: SegmentNone, child: "spine",
		class: ClassTorso, group: GroupTorso, joint: jointClassSpine,
		radius: 0.11, fallback: 0.18, axisHint: mgl32.Vec3{0, 1, 0},
		kind: JointBall, swingDeg: 15, twistDeg: 15, muscle: 1,
	},
	SegmentSpine: {
		bone: "spine", parent: SegmentHips, child: "chest",
		class: ClassTorso, group: GroupTorso, joint: jointClassSpine,
		radius: 0.10, fallback: 0.15, axisHint: mgl32.Vec3{0, 1, 0},
		kind: JointBall, swingDeg: 20, twistDeg: 30, muscle: 1,
	},
	SegmentChest: {
		bone: "chest", parent: SegmentSpine, child: "neck",
		class: ClassTorso, group: GroupTorso, joint: jointClassSpine,
		radius: 0.11, fallback: 0.18, axisHint: mgl32.Vec3{0, 1, 0},
		kind: JointBall, swingDeg: 20, twistDeg: 30, muscle: 1,
	},
	SegmentNeck: {
		bone: "neck", parent: SegmentChest, child: "head",
		class: ClassTorso, group: GroupTorso, joint: jointClassSpine,
		radius: 0.05, fallback: 0.08, axisHint: mgl32.Vec3{0, 1, 0},
		kind: JointBall, swingDeg: 40, twistDeg: 60, muscle: 0.9,
	},
	SegmentHead: {
		bone: "head", parent: SegmentNeck, child: "",
		class: ClassTorso, group: GroupTorso, joint: jointClassSpine,
		radius: 0.10, fallback: 0.22, axisHint: mgl32.Vec3{0, 1, 0},
		kind: JointBall, swingDeg: 30, twistDeg: 40, muscle: 0.9,
	},
	SegmentLeftUpperArm: {
		bone: "leftUpperArm", parent: SegmentChest, child: "leftLowerArm",
		class: ClassLimb, group: GroupLeftArm, joint: jointClassLimb,
		radius: 0.045, fallback: 0.26, axisHint: mgl32.Vec3{1, 0, 0},
		kind: JointBall, swingDeg: 85, twistDeg: 45, muscle: 0.8,
	},
	SegmentLeftLowerArm: {
		bone: "leftLowerArm", parent: SegmentLeftUpperArm, child: "leftHand",
		class: ClassLimb, group: GroupLeftArm, joint: jointClassLimb,
		radius: 0.04, fallback: 0.24, axisHint: mgl32.Vec3{1, 0, 0},
		kind: JointHinge, hingeAxis: mgl32.Vec3{0, 1, 0}, minDeg: 0, maxDeg: 150, muscle: 0.8,
	},
	SegmentLeftHand: {
		bone: "leftHand", parent: SegmentLeftLowerArm, child: "",
		class: ClassExtremity, group: GroupLeftArm, joint: jointClassLimb,
		radius: 0.035, fallback: 0.16, axisHint: mgl32.Vec3{1, 0, 0},
		kind: JointBall, swingDeg: 35, twistDeg: 25, muscle: 0.5,
	},
	SegmentRightUpperArm: {
		bone: "rightUpperArm", parent: SegmentChest, child: "rightLowerArm",
		class: ClassLimb, group: GroupRightArm, joint: jointClassLimb,
		radius: 0.045, fallback: 0.26, axisHint: mgl32.Vec3{-1, 0, 0},
		kind: JointBall, swingDeg: 85, twistDeg: 45, muscle: 0.8,
	},
	SegmentRightLowerArm: {
		bone: "rightLowerArm", parent: SegmentRightUpperArm, child: "rightHand",
		class: ClassLimb, group: GroupRightArm, joint: jointClassLimb,
		radius: 0.04, fallback: 0.24, axisHint: mgl32.Vec3{-1, 0, 0},
		kind: JointHinge, hingeAxis: mgl32.Vec3{0, -1, 0}, minDeg: 0, maxDeg: 150, muscle: 0.8,
	},
	SegmentRightHand: {
		bone: "rightHand", parent: SegmentRightLowerArm, child: "",
		class: ClassExtremity, group: GroupRightArm, joint: jointClassLimb,
		radius: 0.035, fallback: 0.16, axisHint: mgl32.Vec3{-1, 0, 0},
		kind: JointBall, swingDeg: 35, twistDeg: 25, muscle: 0.5,
	},
	SegmentLeftUpperLeg: {
		bone: "leftUpperLeg", parent: SegmentHips, child: "leftLowerLeg",
		class: ClassLimb, group: GroupLeftLeg, joint: jointClassLimb,
		radius: 0.065, fallback: 0.42, axisHint: mgl32.Vec3{0, -1, 0},
		kind: JointBall, swingDeg: 70, twistDeg: 30, muscle: 0.9,
	},
	SegmentLeftLowerLeg: {
		bone: "leftLowerLeg", parent: SegmentLeftUpperLeg, child: "leftFoot",
		class: ClassLimb, group: GroupLeftLeg, joint: jointClassLimb,
		radius: 0.05, fallback: 0.40, axisHint: mgl32.Vec3{0, -1, 0},
		kind: JointHinge, hingeAxis: mgl32.Vec3{1, 0, 0}, minDeg: 0, maxDeg: 135, muscle: 0.9,
	},
	SegmentLeftFoot: {
		bone: "leftFoot", parent: SegmentLeftLowerLeg, child: "leftToes",
		class: ClassExtremity, group: GroupLeftLeg, joint: jointClassLimb,
		radius: 0.04, fallback: 0.20, axisHint: mgl32.Vec3{0, 0, 1},
		kind: JointBall, swingDeg: 30, twistDeg: 15, muscle: 0.5,
	},
	SegmentRightUpperLeg: {
		bone: "rightUpperLeg", parent: SegmentHips, child: "rightLowerLeg",
		class: ClassLimb, group: GroupRightLeg, joint: jointClassLimb,
		radius: 0.065, fallback: 0.42, axisHint: mgl32.Vec3{0, -1, 0},
		kind: JointBall, swingDeg: 70, twistDeg: 30, muscle: 0.9,
	},
	SegmentRightLowerLeg: {
		bone: "rightLowerLeg", parent: SegmentRightUpperLeg, child: "rightFoot",
		class: ClassLimb, group: GroupRightLeg, joint: jointClassLimb,
		radius: 0.05, fallback: 0.40, axisHint: mgl32.Vec3{0, -1, 0},
		kind: JointHinge, hingeAxis: mgl32.Vec3{1, 0, 0}, minDeg: 0, maxDeg: 135, muscle: 0.9,
	},
	SegmentRightFoot: {
		bone: "rightFoot", parent: SegmentRightLowerLeg, child: "rightToes",
		class: ClassExtremity, group: GroupRightLeg, joint: jointClassLimb,
		radius: 0.04, fallback: 0.20, axisHint: mgl32.Vec3{0, 0, 1},
		kind: JointBall, swingDeg: 30, twistDeg: 15, muscle: 0.5,
	},
}
