package ragdoll

import (
	"encoding/json"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// MuscleTuning drives the PD controller that pulls joints back toward the
// captured rest pose. Gains are multiplied by each segment's muscle weight.
type MuscleTuning struct {
	Enabled            bool    `json:"enabled"`
	Stiffness          float32 `json:"stiffness"`
	Damping            float32 `json:"damping"`
	MaxTorque          float32 `json:"max_torque"`
	ImpulseCapFraction float32 `json:"impulse_cap_fraction"`
}

// SegmentTuning overrides the anatomy table for one segment. Zero values mean
// "keep the default"; angles are degrees, offsets are meters in the bone's
// bind frame.
type SegmentTuning struct {
	RadiusScale       float32    `json:"radius_scale"`
	LengthScale       float32    `json:"length_scale"`
	Offset            mgl32.Vec3 `json:"offset"`
	RotationOffsetDeg mgl32.Vec3 `json:"rotation_offset_deg"`
	MuscleWeight      float32    `json:"muscle_weight"`

	MinDeg   float32 `json:"min_deg"`
	MaxDeg   float32 `json:"max_deg"`
	SwingDeg float32 `json:"swing_deg"`
	TwistDeg float32 `json:"twist_deg"`
}

// Tuning is the full knob set of the rig. A value of this struct is plain
// data; it can be shared between rigs, serialized to JSON and hand-edited.
// The Segments array is indexed by Segment.
type Tuning struct {
	Gravity       mgl32.Vec3 `json:"gravity"`
	GroundEnabled bool       `json:"ground_enabled"`
	GroundHeight  float32    `json:"ground_height"`

	SubstepHz   float32 `json:"substep_hz"`
	MaxSubsteps int     `json:"max_substeps"`
	MinDt       float32 `json:"min_dt"`
	MaxDt       float32 `json:"max_dt"`

	LinearBleed         float32 `json:"linear_bleed"`
	AngularBleed        float32 `json:"angular_bleed"`
	SlideSpeedThreshold float32 `json:"slide_speed_threshold"`
	SlideDamping        float32 `json:"slide_damping"`
	SlideDeadzone       float32 `json:"slide_deadzone"`
	MaxLinearSpeed      float32 `json:"max_linear_speed"`
	MaxAngularSpeed     float32 `json:"max_angular_speed"`

	SleepLinearThreshold  float32 `json:"sleep_linear_threshold"`
	SleepAngularThreshold float32 `json:"sleep_angular_threshold"`
	SleepDuration         float32 `json:"sleep_duration"`

	DampingScale        float32 `json:"damping_scale"`
	JointStiffnessScale float32 `json:"joint_stiffness_scale"`
	JointDampingScale   float32 `json:"joint_damping_scale"`

	LimitBlend          float32 `json:"limit_blend"`
	LimitSlopDeg        float32 `json:"limit_slop_deg"`
	LimitVelocityRetain float32 `json:"limit_velocity_retain"`

	Muscle MuscleTuning `json:"muscle"`

	BlendInSeconds float32    `json:"blend_in_seconds"`
	InitialImpulse mgl32.Vec3 `json:"initial_impulse"`

	Segments [SegmentCount]SegmentTuning `json:"segments"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Gravity:       mgl32.Vec3{0, -9.81, 0},
		GroundEnabled: true,
		GroundHeight:  0,

		SubstepHz:   240,
		MaxSubsteps: 8,
		MinDt:       1.0 / 240.0,
		MaxDt:       1.0 / 30.0,

		LinearBleed:         0.995,
		AngularBleed:        0.97,
		SlideSpeedThreshold: 0.12,
		SlideDamping:        0.9,
		SlideDeadzone:       0.02,
		MaxLinearSpeed:      20,
		MaxAngularSpeed:     40,

		SleepLinearThreshold:  0.05,
		SleepAngularThreshold: 0.15,
		SleepDuration:         0.75,

		DampingScale:        1,
		JointStiffnessScale: 1,
		JointDampingScale:   1,

		LimitBlend:          0.85,
		LimitSlopDeg:        0.5,
		LimitVelocityRetain: 0.35,

		Muscle: MuscleTuning{
			Enabled:            true,
			Stiffness:          40,
			Damping:            4,
			MaxTorque:          60,
			ImpulseCapFraction: 0.3,
		},

		BlendInSeconds: 0.2,
	}
}

// segment returns the override entry for seg; the zero value when seg is out
// of range.
func (t *Tuning) segment(seg Segment) SegmentTuning {
	if !seg.Valid() {
		return SegmentTuning{}
	}
	return t.Segments[seg]
}

// scaleOr maps the zero-value convention of SegmentTuning scales to 1.
func scaleOr(v float32) float32 {
	if v == 0 {
		return 1
	}
	return v
}

func LoadTuning(filename string) (*Tuning, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	tuning := DefaultTuning()
	if err := json.Unmarshal(bytes, &tuning); err != nil {
		return nil, err
	}
	return &tuning, nil
}

func (t *Tuning) Save(filename string) error {
	bytes, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, bytes, 0644)
}
