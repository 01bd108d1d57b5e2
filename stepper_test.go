package ragdoll

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func stepperTestWorld() (*World, *RigidBody, *Tuning) {
	tn := DefaultTuning()
	tn.GroundEnabled = false
	tn.Muscle.Enabled = false
	w := NewWorld(&tn)
	b := w.AddBody(BodyDef{
		Shape: SphereCollider, Radius: 0.1,
		Position: mgl32.Vec3{0, 10, 0}, Rotation: mgl32.QuatIdent(),
	})
	return w, b, &tn
}

func TestStepFrameClampsLargeDelta(t *testing.T) {
	w, b, tn := stepperTestWorld()

	// A ten second hitch must advance at most MaxDt of simulation.
	stepFrame(w, nil, tn, 10)

	fell := 10 - b.Position.Y()
	if fell <= 0 {
		t.Error("Expected the body to fall")
	}
	if fell > 0.05 {
		t.Errorf("A clamped frame should fall millimeters, got %f m", fell)
	}
}

func TestStepFrameClampsTinyDelta(t *testing.T) {
	w, b, tn := stepperTestWorld()

	// Zero delta still advances by MinDt.
	stepFrame(w, nil, tn, 0)

	if b.Velocity.Y() >= 0 {
		t.Errorf("Expected gravity to act over the minimum delta, got %v", b.Velocity)
	}
	if b.Position.Y() >= 10 {
		t.Error("Expected the body to move over the minimum delta")
	}
}

func TestSettleBleed(t *testing.T) {
	w, b, tn := stepperTestWorld()
	b.Velocity = mgl32.Vec3{0, 5, 0}
	b.AngularVelocity = mgl32.Vec3{0, 0, 2}

	settleBodies(w, tn, 1.0/60.0)

	if want := 5 * tn.LinearBleed; mgl32.Abs(b.Velocity.Y()-want) > 1e-6 {
		t.Errorf("Expected linear bleed to %f, got %f", want, b.Velocity.Y())
	}
	if want := 2 * tn.AngularBleed; mgl32.Abs(b.AngularVelocity.Z()-want) > 1e-6 {
		t.Errorf("Expected angular bleed to %f, got %f", want, b.AngularVelocity.Z())
	}
}

func TestSettleSlideDamping(t *testing.T) {
	w, b, tn := stepperTestWorld()

	// Nearly done falling: horizontal motion is damped.
	b.Velocity = mgl32.Vec3{1, 0.05, 1}
	settleBodies(w, tn, 1.0/60.0)
	want := 1 * tn.LinearBleed * tn.SlideDamping
	if mgl32.Abs(b.Velocity.X()-want) > 1e-5 || mgl32.Abs(b.Velocity.Z()-want) > 1e-5 {
		t.Errorf("Expected horizontal velocity damped to %f, got %v", want, b.Velocity)
	}

	// Still falling fast: horizontal motion is left alone.
	b.Velocity = mgl32.Vec3{1, -3, 1}
	settleBodies(w, tn, 1.0/60.0)
	if want := 1 * tn.LinearBleed; mgl32.Abs(b.Velocity.X()-want) > 1e-5 {
		t.Errorf("Expected only bleed on a falling body, got %v", b.Velocity)
	}

	// Below the deadzone the slide is cut off entirely.
	b.Velocity = mgl32.Vec3{0.01, 0, 0}
	settleBodies(w, tn, 1.0/60.0)
	if b.Velocity != (mgl32.Vec3{}) {
		t.Errorf("Expected the slide deadzone to zero the velocity, got %v", b.Velocity)
	}
}

func TestSettleSpeedCaps(t *testing.T) {
	w, b, tn := stepperTestWorld()
	b.Velocity = mgl32.Vec3{100, 0, 0}
	b.AngularVelocity = mgl32.Vec3{0, 0, 100}

	settleBodies(w, tn, 1.0/60.0)

	if got := b.Velocity.Len(); mgl32.Abs(got-tn.MaxLinearSpeed) > 1e-3 {
		t.Errorf("Expected linear speed capped at %f, got %f", tn.MaxLinearSpeed, got)
	}
	if b.Velocity.X() <= 0 {
		t.Error("Cap should preserve direction")
	}
	if got := b.AngularVelocity.Len(); mgl32.Abs(got-tn.MaxAngularSpeed) > 1e-3 {
		t.Errorf("Expected angular speed capped at %f, got %f", tn.MaxAngularSpeed, got)
	}
}

func TestSettleSleepCycle(t *testing.T) {
	w, b, tn := stepperTestWorld()
	b.Velocity = mgl32.Vec3{0.01, 0, 0}
	b.AngularVelocity = mgl32.Vec3{0, 0, 0.1}

	// Eight calm 100 ms frames pass the 0.75 s settle duration.
	for i := 0; i < 8; i++ {
		settleBodies(w, tn, 0.1)
	}

	if !b.Sleeping {
		t.Fatal("Expected the body asleep after the settle duration")
	}
	if b.Velocity != (mgl32.Vec3{}) || b.AngularVelocity != (mgl32.Vec3{}) {
		t.Error("Sleep should zero both velocities")
	}

	b.Wake()
	if b.Sleeping || b.IdleTime != 0 {
		t.Error("Wake should clear the sleep state")
	}

	// Motion above the threshold resets the idle timer.
	b.Velocity = mgl32.Vec3{1, 0, 0}
	settleBodies(w, tn, 0.1)
	if b.IdleTime != 0 {
		t.Errorf("Expected the idle timer reset, got %f", b.IdleTime)
	}
	if b.Sleeping {
		t.Error("A moving body must not sleep")
	}
}
