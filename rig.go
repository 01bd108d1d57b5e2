package ragdoll

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Link ties one simulated segment to its skeleton bone: the rigid body, the
// joint to the parent link, the captured rest orientation and limit, and the
// fixed body-to-bone orientation offset the pose writer composes with.
type Link struct {
	Segment Segment
	Bone    BoneID
	Spec    SegmentSpec

	Body   *RigidBody
	Parent *Link
	Joint  *Joint

	BodyToBone mgl32.Quat
	RestLocal  mgl32.Quat
	Limit      Limit
	Weight     float32
}

// Rig owns the full ragdoll: the physics world, one link per buildable
// segment, the tuning, and the activation state. All methods must run on the
// host's update thread; building never interleaves with an in-flight step.
type Rig struct {
	skel   *Skeleton
	tuning *Tuning
	log    Logger

	backend backendLoader

	id        string
	world     *World
	links     []*Link
	bySegment [SegmentCount]*Link
	byBone    []*Link

	rootLink   *Link
	rootOffset mgl32.Vec3

	enabled bool
	blend   *gween.Tween
	weight  float32
}

// NewRig creates a disabled rig over the given skeleton. A nil tuning uses
// the defaults, a nil logger disables logging.
func NewRig(skel *Skeleton, tuning *Tuning, log Logger) *Rig {
	if tuning == nil {
		t := DefaultTuning()
		tuning = &t
	}
	if log == nil {
		log = NewNopLogger()
	}
	return &Rig{skel: skel, tuning: tuning, log: log}
}

// SetBackendProbe replaces the backend load step. Call before Enable; the
// replacement resets readiness so the next build probes again.
func (r *Rig) SetBackendProbe(probe BackendProbe) {
	r.backend.setProbe(probe)
}

func (r *Rig) Enabled() bool { return r.enabled }

// Tuning returns the live tuning. Per-frame values take effect immediately,
// build-time values on the next enable or rebuild.
func (r *Rig) Tuning() *Tuning { return r.tuning }

// Enable builds the rig from the skeleton's current pose, applies the
// configured initial impulse to the root body and starts the pose blend-in.
// Returns ErrBackendUnavailable when the physics backend is not ready; the
// rig stays off and the call may be retried.
func (r *Rig) Enable() error {
	if r.enabled {
		return nil
	}
	if err := r.ensureBackend(); err != nil {
		return err
	}
	r.build()
	if r.rootLink != nil {
		if imp := r.tuning.InitialImpulse; imp.LenSqr() > 0 {
			r.rootLink.Body.ApplyImpulse(imp)
		}
	}
	r.enabled = true
	r.startBlend()
	return nil
}

// Disable discards the world with every body and joint wholesale.
func (r *Rig) Disable() {
	if !r.enabled && r.world == nil {
		return
	}
	r.world = nil
	r.links = nil
	r.byBone = nil
	r.bySegment = [SegmentCount]*Link{}
	r.rootLink = nil
	r.blend = nil
	r.weight = 0
	r.enabled = false
	r.log.Infof("Rig %s disabled", r.id)
}

// Rebuild discards the prior world and reconstructs everything from the
// skeleton's current pose in one shot. Enables a disabled rig.
func (r *Rig) Rebuild() error {
	if err := r.ensureBackend(); err != nil {
		return err
	}
	wasEnabled := r.enabled
	r.build()
	r.enabled = true
	if !wasEnabled {
		r.startBlend()
	}
	return nil
}

// Step advances the simulation by one frame's delta and writes the resulting
// pose into the skeleton. No-op while disabled.
func (r *Rig) Step(dt float32) {
	if !r.enabled || r.world == nil {
		return
	}
	if r.blend != nil {
		w, done := r.blend.Update(dt)
		r.weight = w
		if done {
			r.blend = nil
			r.weight = 1
		}
	}
	stepFrame(r.world, r.links, r.tuning, dt)
	writePose(r.skel, r.byBone, r.rootLink, r.rootOffset, r.weight)
}

func (r *Rig) ensureBackend() error {
	if err := r.backend.ensureReady(); err != nil {
		r.log.Warnf("Backend load failed: %v", err)
		return err
	}
	return nil
}

func (r *Rig) startBlend() {
	if r.tuning.BlendInSeconds <= 0 {
		r.blend = nil
		r.weight = 1
		return
	}
	r.blend = gween.New(0, 1, r.tuning.BlendInSeconds, ease.OutQuad)
	r.weight = 0
}

// build derives a spec for every configured segment, spawns bodies and
// joints, and captures the pose write-back offsets. A segment whose bone is
// missing is skipped along with any joint that would touch it; children of a
// skipped segment attach to the nearest present ancestor instead.
func (r *Rig) build() {
	r.id = newHandle()
	r.skel.UpdateWorldTransforms()

	r.world = NewWorld(r.tuning)
	r.links = r.links[:0]
	r.bySegment = [SegmentCount]*Link{}
	r.byBone = make([]*Link, r.skel.Len())
	r.rootLink = nil

	skipped := 0
	for seg := Segment(0); seg < SegmentCount; seg++ {
		spec, ok := BuildSegment(r.skel, seg, r.tuning)
		if !ok {
			skipped++
			r.log.Debugf("Rig %s: no bone for segment %s, skipped", r.id, seg)
			continue
		}
		def := &segmentDefs[seg]
		weight := def.muscle
		if ov := r.tuning.segment(seg); ov.MuscleWeight != 0 {
			weight = ov.MuscleWeight
		}
		node := r.skel.Node(spec.Bone)
		link := &Link{
			Segment:    seg,
			Bone:       spec.Bone,
			Spec:       spec,
			Body:       buildBody(r.world, spec, r.tuning),
			BodyToBone: spec.Rotation.Inverse().Mul(node.WorldRotation).Normalize(),
			Weight:     weight,
		}
		r.links = append(r.links, link)
		r.bySegment[seg] = link
		r.byBone[spec.Bone] = link
	}

	for _, link := range r.links {
		parent := r.presentAncestor(link.Segment)
		if parent == nil {
			continue
		}
		assembleJoint(r.world, parent, link, r.skel, r.tuning)
	}

	if root := r.bySegment[SegmentHips]; root != nil {
		r.rootLink = root
		r.rootOffset = r.skel.RootPosition().Sub(root.Body.Position)
	}

	r.log.Infof("Rig %s built: %d bodies, %d joints, %d segments skipped",
		r.id, len(r.world.Bodies()), len(r.world.Joints()), skipped)
}

// presentAncestor walks the anatomy table upward to the nearest segment that
// built a link.
func (r *Rig) presentAncestor(seg Segment) *Link {
	for p := segmentDefs[seg].parent; p != SegmentNone; p = segmentDefs[p].parent {
		if link := r.bySegment[p]; link != nil {
			return link
		}
	}
	return nil
}
