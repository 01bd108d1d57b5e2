package ragdoll

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	vecEpsilon   = 1e-6
	twistEpsilon = 1e-6
)

// localUp is the canonical long axis of every capsule in body-local space.
var localUp = mgl32.Vec3{0, 1, 0}

// quatPositive returns q with a non-negative scalar part. q and -q encode the
// same rotation; decomposition and angle extraction need the half closest to
// identity.
func quatPositive(q mgl32.Quat) mgl32.Quat {
	if q.W < 0 {
		return q.Scale(-1)
	}
	return q
}

// slerpShortest interpolates along the shorter arc between a and b.
func slerpShortest(a, b mgl32.Quat, t float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// swingTwist splits q into a rotation about axis (twist) and a rotation about
// an orthogonal axis (swing) so that q = swing * twist. Reports false when the
// twist projection degenerates, i.e. the rotation is nearly 180 degrees about
// an axis orthogonal to the reference axis.
func swingTwist(q mgl32.Quat, axis mgl32.Vec3) (swing, twist mgl32.Quat, ok bool) {
	proj := q.V.Dot(axis)
	normSq := q.W*q.W + proj*proj
	if normSq < twistEpsilon {
		return mgl32.QuatIdent(), mgl32.QuatIdent(), false
	}
	inv := 1 / float32(math.Sqrt(float64(normSq)))
	twist = mgl32.Quat{W: q.W * inv, V: axis.Mul(proj * inv)}
	swing = q.Mul(twist.Conjugate())
	return swing, twist, true
}

// twistAngle is the signed angle of a twist quaternion about its axis.
func twistAngle(twist mgl32.Quat, axis mgl32.Vec3) float32 {
	return 2 * float32(math.Atan2(float64(twist.V.Dot(axis)), float64(twist.W)))
}

// swingAngle is the unsigned angle of a swing quaternion.
func swingAngle(swing mgl32.Quat) float32 {
	return 2 * float32(math.Acos(float64(mgl32.Clamp(swing.W, -1, 1))))
}

// axisAngle extracts the rotation axis and angle of q. Reports false near
// identity where the axis is undefined.
func axisAngle(q mgl32.Quat) (mgl32.Vec3, float32, bool) {
	q = quatPositive(q)
	w := mgl32.Clamp(q.W, -1, 1)
	d := 1 - w*w
	if d < 0 {
		d = 0
	}
	s := float32(math.Sqrt(float64(d)))
	if s < vecEpsilon {
		return mgl32.Vec3{}, 0, false
	}
	angle := 2 * float32(math.Acos(float64(w)))
	return q.V.Mul(1 / s), angle, true
}

// smallAngleDelta applies an incremental rotation (axis scaled by angle) to q
// to first order and renormalizes.
func smallAngleDelta(q mgl32.Quat, dTheta mgl32.Vec3) mgl32.Quat {
	dq := mgl32.Quat{W: 0, V: dTheta.Mul(0.5)}
	return q.Add(dq.Mul(q)).Normalize()
}

// safeNormalize reports false for vectors too short to carry a direction.
func safeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	if v.LenSqr() < vecEpsilon {
		return mgl32.Vec3{}, false
	}
	return v.Normalize(), true
}

func lerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// closestPtSegmentSegment returns the closest points between segments [p1,q1]
// and [p2,q2] (Ericson 5.1.9).
func closestPtSegmentSegment(p1, q1, p2, q2 mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	d1 := q1.Sub(p1)
	d2 := q2.Sub(p2)
	r := p1.Sub(p2)
	a := d1.LenSqr()
	e := d2.LenSqr()
	f := d2.Dot(r)

	var s, t float32
	switch {
	case a <= vecEpsilon && e <= vecEpsilon:
		return p1, p2
	case a <= vecEpsilon:
		t = mgl32.Clamp(f/e, 0, 1)
	default:
		c := d1.Dot(r)
		if e <= vecEpsilon {
			s = mgl32.Clamp(-c/a, 0, 1)
		} else {
			b := d1.Dot(d2)
			denom := a*e - b*b
			if denom > vecEpsilon {
				s = mgl32.Clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = mgl32.Clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = mgl32.Clamp((b-c)/a, 0, 1)
			}
		}
	}
	return p1.Add(d1.Mul(s)), p2.Add(d2.Mul(t))
}
