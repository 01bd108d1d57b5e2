package ragdoll

import "github.com/go-gl/mathgl/mgl32"

// stepFrame advances the world by one render frame: clamp the delta, run the
// muscle pass, step the world at the substep rate, clamp orientations against
// the joint limits, then shape velocities and update sleep state.
func stepFrame(world *World, links []*Link, tuning *Tuning, dt float32) {
	dt = mgl32.Clamp(dt, tuning.MinDt, tuning.MaxDt)

	applyMuscles(links, tuning, dt)

	n := int(dt*tuning.SubstepHz + 0.5)
	if n < 1 {
		n = 1
	}
	if tuning.MaxSubsteps > 0 && n > tuning.MaxSubsteps {
		n = tuning.MaxSubsteps
	}
	h := dt / float32(n)
	for i := 0; i < n; i++ {
		world.Step(h)
	}

	applyJointLimits(links, tuning)
	settleBodies(world, tuning, dt)
}

// settleBodies runs the per-frame velocity shaping on every awake body:
// uniform bleed, horizontal slide damping with a deadzone when a body is no
// longer falling, hard speed caps, and the sleep timer. A body under both
// sleep thresholds for the full settle duration is zeroed and put to sleep.
func settleBodies(world *World, tuning *Tuning, dt float32) {
	for _, b := range world.Bodies() {
		if b.Sleeping {
			continue
		}

		b.Velocity = b.Velocity.Mul(tuning.LinearBleed)
		b.AngularVelocity = b.AngularVelocity.Mul(tuning.AngularBleed)

		if mgl32.Abs(b.Velocity.Y()) < tuning.SlideSpeedThreshold {
			horiz := mgl32.Vec3{b.Velocity.X(), 0, b.Velocity.Z()}
			if horiz.Len() < tuning.SlideDeadzone {
				b.Velocity = mgl32.Vec3{0, b.Velocity.Y(), 0}
			} else {
				b.Velocity = mgl32.Vec3{
					b.Velocity.X() * tuning.SlideDamping,
					b.Velocity.Y(),
					b.Velocity.Z() * tuning.SlideDamping,
				}
			}
		}

		if speed := b.Velocity.Len(); speed > tuning.MaxLinearSpeed {
			b.Velocity = b.Velocity.Mul(tuning.MaxLinearSpeed / speed)
		}
		if speed := b.AngularVelocity.Len(); speed > tuning.MaxAngularSpeed {
			b.AngularVelocity = b.AngularVelocity.Mul(tuning.MaxAngularSpeed / speed)
		}

		if b.Velocity.Len() < tuning.SleepLinearThreshold && b.AngularVelocity.Len() < tuning.SleepAngularThreshold {
			b.IdleTime += dt
			if b.IdleTime >= tuning.SleepDuration {
				b.Velocity = mgl32.Vec3{}
				b.AngularVelocity = mgl32.Vec3{}
				b.Sleeping = true
			}
		} else {
			b.IdleTime = 0
		}
	}
}
