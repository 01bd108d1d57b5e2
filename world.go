package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	broadphaseCellSize = 0.5
	contactSlop        = 0.005
	contactPercent     = 0.8
	// contacts below this impulse leave sleep state alone
	wakeImpulse = 0.02
)

func newHandle() string { return uuid.NewString() }

// World owns the rigid bodies and joints of one rig activation and steps
// them. It is the entire surface the rig reaches the solver through: bodies,
// joints, stepping and read-back. Not safe for concurrent use.
type World struct {
	Gravity mgl32.Vec3

	GroundEnabled bool
	GroundHeight  float32

	bodies   []*RigidBody
	byHandle map[BodyHandle]*RigidBody
	joints   []*Joint

	grid    *spatialHashGrid
	scratch []int
}

func NewWorld(tuning *Tuning) *World {
	w := &World{
		Gravity:  mgl32.Vec3{0, -9.81, 0},
		byHandle: make(map[BodyHandle]*RigidBody),
		grid:     newSpatialHashGrid(broadphaseCellSize),
	}
	if tuning != nil {
		w.Gravity = tuning.Gravity
		w.GroundEnabled = tuning.GroundEnabled
		w.GroundHeight = tuning.GroundHeight
	}
	return w
}

// BodyDef describes a body to spawn.
type BodyDef struct {
	Shape      ColliderShape
	Radius     float32
	HalfHeight float32

	Position mgl32.Vec3
	Rotation mgl32.Quat

	Density     float32
	Friction    float32
	Restitution float32

	LinearDamping  float32
	AngularDamping float32

	Group CollisionGroup
	CCD   bool
}

func (w *World) AddBody(def BodyDef) *RigidBody {
	body := &RigidBody{
		Handle:         BodyHandle(newHandle()),
		Shape:          def.Shape,
		Radius:         def.Radius,
		HalfHeight:     def.HalfHeight,
		Position:       def.Position,
		Rotation:       def.Rotation.Normalize(),
		GravityScale:   1,
		LinearDamping:  def.LinearDamping,
		AngularDamping: def.AngularDamping,
		Friction:       def.Friction,
		Restitution:    def.Restitution,
		Group:          def.Group,
		CCD:            def.CCD,
	}
	density := def.Density
	if density <= 0 {
		density = 1000
	}
	body.computeMass(density)
	body.prevPos = body.Position
	w.bodies = append(w.bodies, body)
	w.byHandle[body.Handle] = body
	return body
}

// RemoveBody drops a body and every joint attached to it.
func (w *World) RemoveBody(handle BodyHandle) {
	body, ok := w.byHandle[handle]
	if !ok {
		return
	}
	delete(w.byHandle, handle)
	bodies := w.bodies[:0]
	for _, b := range w.bodies {
		if b != body {
			bodies = append(bodies, b)
		}
	}
	w.bodies = bodies
	joints := w.joints[:0]
	for _, j := range w.joints {
		if j.parent != body && j.child != body {
			joints = append(joints, j)
		}
	}
	w.joints = joints
}

func (w *World) Body(handle BodyHandle) *RigidBody { return w.byHandle[handle] }

func (w *World) Bodies() []*RigidBody { return w.bodies }

func (w *World) Joints() []*Joint { return w.joints }

// AddJoint connects parent and child at a single world point, freezing the
// anchors in each body's local frame at their current poses. Stiffness is
// clamped to [0,1].
func (w *World) AddJoint(parent, child *RigidBody, worldPoint mgl32.Vec3, stiffness, damping float32) *Joint {
	j := &Joint{
		Handle:       JointHandle(newHandle()),
		parent:       parent,
		child:        child,
		anchorParent: parent.Rotation.Inverse().Rotate(worldPoint.Sub(parent.Position)),
		anchorChild:  child.Rotation.Inverse().Rotate(worldPoint.Sub(child.Position)),
		stiffness:    mgl32.Clamp(stiffness, 0, 1),
		damping:      damping,
	}
	w.joints = append(w.joints, j)
	return j
}

// Step advances the world by one substep: integrate, solve joints, resolve
// contacts.
func (w *World) Step(h float32) {
	if h <= 0 {
		return
	}
	for _, b := range w.bodies {
		b.integrate(h, w.Gravity)
	}
	for _, j := range w.joints {
		j.solvePosition(h)
	}
	for _, j := range w.joints {
		j.solveVelocity(h)
	}
	w.collideBodies()
	if w.GroundEnabled {
		for _, b := range w.bodies {
			w.collideGround(b)
		}
	}
}

func (w *World) collideBodies() {
	w.grid.clear()
	for i, b := range w.bodies {
		w.grid.insert(i, b.bounds())
	}
	for i, a := range w.bodies {
		box := a.bounds()
		w.scratch = w.grid.queryAABB(box, w.scratch[:0])
		for _, k := range w.scratch {
			if k <= i {
				continue
			}
			b := w.bodies[k]
			if a.Group != GroupNone && a.Group == b.Group {
				continue
			}
			if a.Sleeping && b.Sleeping {
				continue
			}
			if !box.overlaps(b.bounds()) {
				continue
			}
			w.collidePair(a, b)
		}
	}
}

// collidePair runs the capsule-capsule narrowphase and resolves the contact.
func (w *World) collidePair(a, b *RigidBody) {
	a0, a1 := a.endpoints()
	b0, b1 := b.endpoints()
	ca, cb := closestPtSegmentSegment(a0, a1, b0, b1)
	delta := cb.Sub(ca)
	distSq := delta.LenSqr()
	rSum := a.Radius + b.Radius
	if distSq >= rSum*rSum {
		return
	}
	dist := float32(math.Sqrt(float64(distSq)))
	n := localUp
	if dist > vecEpsilon {
		n = delta.Mul(1 / dist)
	}
	point := ca.Add(cb).Mul(0.5)
	w.resolveContact(a, b, n, rSum-dist, point)
}

// resolveContact separates the pair positionally and applies a normal plus
// friction impulse. n points from a toward b.
func (w *World) resolveContact(a, b *RigidBody, n mgl32.Vec3, depth float32, point mgl32.Vec3) {
	if depth > contactSlop {
		invSum := a.invMass + b.invMass
		if invSum > 0 {
			push := n.Mul((depth - contactSlop) * contactPercent / invSum)
			a.Position = a.Position.Sub(push.Mul(a.invMass))
			b.Position = b.Position.Add(push.Mul(b.invMass))
		}
	}

	vRel := b.velocityAt(point).Sub(a.velocityAt(point))
	vn := vRel.Dot(n)
	if vn >= 0 {
		return
	}
	ra := point.Sub(a.Position)
	rb := point.Sub(b.Position)
	wSum := a.generalizedInvMass(ra, n) + b.generalizedInvMass(rb, n)
	if wSum <= 0 {
		return
	}
	e := min(a.Restitution, b.Restitution)
	jn := -(1 + e) * vn / wSum
	impulse := n.Mul(jn)
	b.applyImpulseAt(impulse, point)
	a.applyImpulseAt(impulse.Mul(-1), point)
	if jn > wakeImpulse {
		a.Wake()
		b.Wake()
	}

	vt := vRel.Sub(n.Mul(vn))
	speed := vt.Len()
	if speed < vecEpsilon {
		return
	}
	t := vt.Mul(1 / speed)
	wT := a.generalizedInvMass(ra, t) + b.generalizedInvMass(rb, t)
	if wT <= 0 {
		return
	}
	jt := -speed / wT
	friction := float32(math.Sqrt(float64(a.Friction * b.Friction)))
	if maxF := friction * jn; jt < -maxF {
		jt = -maxF
	}
	fImpulse := t.Mul(jt)
	b.applyImpulseAt(fImpulse, point)
	a.applyImpulseAt(fImpulse.Mul(-1), point)
}

// collideGround resolves the capsule caps against the ground plane. A CCD
// body that crossed the plane within this substep, or sits deeper than its
// own radius, snaps back to the surface so a fast fall cannot pass through;
// shallow contacts are lifted gradually to keep resting bodies calm.
func (w *World) collideGround(b *RigidBody) {
	if b.Sleeping {
		return
	}
	e0, e1 := b.endpoints()
	low := min(e0.Y(), e1.Y()) - b.Radius
	depth := w.GroundHeight - low
	if depth <= 0 {
		return
	}

	prevLow := low - (b.Position.Y() - b.prevPos.Y())
	if b.CCD && (depth > b.Radius || prevLow >= w.GroundHeight) {
		b.Position = b.Position.Add(mgl32.Vec3{0, depth, 0})
	} else if lift := depth - contactSlop; lift > 0 {
		b.Position = b.Position.Add(mgl32.Vec3{0, lift * contactPercent, 0})
	}

	n := mgl32.Vec3{0, 1, 0}
	for _, e := range [2]mgl32.Vec3{e0, e1} {
		if w.GroundHeight-(e.Y()-b.Radius) <= 0 {
			continue
		}
		point := mgl32.Vec3{e.X(), w.GroundHeight, e.Z()}
		vRel := b.velocityAt(point)
		vn := vRel.Dot(n)
		if vn >= 0 {
			continue
		}
		r := point.Sub(b.Position)
		wN := b.generalizedInvMass(r, n)
		if wN <= 0 {
			continue
		}
		jn := -(1 + b.Restitution) * vn / wN
		b.applyImpulseAt(n.Mul(jn), point)

		vt := vRel.Sub(n.Mul(vn))
		speed := vt.Len()
		if speed < vecEpsilon {
			continue
		}
		t := vt.Mul(1 / speed)
		wT := b.generalizedInvMass(r, t)
		if wT <= 0 {
			continue
		}
		jt := -speed / wT
		if maxF := b.Friction * jn; jt < -maxF {
			jt = -maxF
		}
		b.applyImpulseAt(t.Mul(jt), point)
	}
}
