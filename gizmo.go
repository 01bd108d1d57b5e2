package ragdoll

import "github.com/go-gl/mathgl/mgl32"

type GizmoType int

const (
	GizmoLine GizmoType = iota
	GizmoCapsule
	GizmoSphere
)

// GizmoShape is one wireframe primitive of the debug overlay. Shapes are
// one-way snapshots; the consumer never writes back.
type GizmoShape struct {
	Type  GizmoType
	Color [4]float32

	Position mgl32.Vec3
	Rotation mgl32.Quat

	LineEnd    mgl32.Vec3 // For GizmoLine, the end point; Position is the start.
	Radius     float32
	HalfHeight float32 // For GizmoCapsule, half the cylinder length.
}

func NewGizmoLine(start, end mgl32.Vec3, color [4]float32) GizmoShape {
	return GizmoShape{
		Type:     GizmoLine,
		Position: start,
		LineEnd:  end,
		Color:    color,
		Rotation: mgl32.QuatIdent(),
	}
}

func NewGizmoSphere(center mgl32.Vec3, radius float32, color [4]float32) GizmoShape {
	return GizmoShape{
		Type:     GizmoSphere,
		Position: center,
		Radius:   radius,
		Color:    color,
		Rotation: mgl32.QuatIdent(),
	}
}

func NewGizmoCapsule(center mgl32.Vec3, rotation mgl32.Quat, radius, halfHeight float32, color [4]float32) GizmoShape {
	return GizmoShape{
		Type:       GizmoCapsule,
		Position:   center,
		Rotation:   rotation,
		Radius:     radius,
		HalfHeight: halfHeight,
		Color:      color,
	}
}

// groupColors color the debug shapes by collision group.
var groupColors = [...][4]float32{
	GroupNone:     {1, 1, 1, 1},
	GroupTorso:    {0.9, 0.6, 0.1, 1},
	GroupLeftArm:  {0.2, 0.8, 0.2, 1},
	GroupRightArm: {0.2, 0.5, 0.9, 1},
	GroupLeftLeg:  {0.8, 0.3, 0.8, 1},
	GroupRightLeg: {0.9, 0.3, 0.2, 1},
}

var jointGizmoColor = [4]float32{1, 1, 0.2, 1}

// SegmentTransform is a one-way debug snapshot of one simulated segment.
type SegmentTransform struct {
	Segment    Segment
	Position   mgl32.Vec3
	Rotation   mgl32.Quat
	Radius     float32
	HalfHeight float32
	Shape      ColliderShape
	Sleeping   bool
}

// SegmentTransforms snapshots every active segment. Nil while disabled.
func (r *Rig) SegmentTransforms() []SegmentTransform {
	if !r.enabled {
		return nil
	}
	out := make([]SegmentTransform, 0, len(r.links))
	for _, link := range r.links {
		b := link.Body
		out = append(out, SegmentTransform{
			Segment:    link.Segment,
			Position:   b.Position,
			Rotation:   b.Rotation,
			Radius:     b.Radius,
			HalfHeight: b.HalfHeight,
			Shape:      b.Shape,
			Sleeping:   b.Sleeping,
		})
	}
	return out
}

// SegmentGizmos renders the active segments as wireframe shapes colored by
// collision group, with a line per joint between the two world anchors.
// Sleeping bodies are drawn faded.
func (r *Rig) SegmentGizmos() []GizmoShape {
	if !r.enabled {
		return nil
	}
	out := make([]GizmoShape, 0, len(r.links)*2)
	for _, link := range r.links {
		b := link.Body
		color := groupColors[b.Group]
		if b.Sleeping {
			color[3] *= 0.4
		}
		if b.Shape == SphereCollider {
			out = append(out, NewGizmoSphere(b.Position, b.Radius, color))
		} else {
			out = append(out, NewGizmoCapsule(b.Position, b.Rotation, b.Radius, b.HalfHeight, color))
		}
		if link.Joint != nil {
			pa, ca := link.Joint.WorldAnchors()
			out = append(out, NewGizmoLine(pa, ca, jointGizmoColor))
		}
	}
	return out
}
