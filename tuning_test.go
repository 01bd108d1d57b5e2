package ragdoll

import (
	"os"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTuningSaveLoadRoundTrip(t *testing.T) {
	tn := DefaultTuning()
	tn.Gravity = mgl32.Vec3{0, -5, 0}
	tn.Muscle.MaxTorque = 80
	tn.Segments[SegmentHead].RadiusScale = 1.5
	tn.Segments[SegmentLeftLowerLeg].MaxDeg = 120

	testFile := "test_tuning.json"
	defer os.Remove(testFile)

	if err := tn.Save(testFile); err != nil {
		t.Fatalf("Failed to save tuning: %v", err)
	}

	loaded, err := LoadTuning(testFile)
	if err != nil {
		t.Fatalf("Failed to load tuning: %v", err)
	}

	if loaded.Gravity != tn.Gravity {
		t.Errorf("Gravity not preserved: %v", loaded.Gravity)
	}
	if loaded.Muscle.MaxTorque != 80 {
		t.Errorf("Muscle torque not preserved: %f", loaded.Muscle.MaxTorque)
	}
	if loaded.Segments[SegmentHead].RadiusScale != 1.5 {
		t.Errorf("Head radius scale not preserved: %f", loaded.Segments[SegmentHead].RadiusScale)
	}
	if loaded.Segments[SegmentLeftLowerLeg].MaxDeg != 120 {
		t.Errorf("Knee override not preserved: %f", loaded.Segments[SegmentLeftLowerLeg].MaxDeg)
	}
	if loaded.SubstepHz != tn.SubstepHz {
		t.Errorf("Untouched field changed in the round trip: %f", loaded.SubstepHz)
	}
}

func TestLoadTuningFillsDefaults(t *testing.T) {
	testFile := "test_tuning_partial.json"
	defer os.Remove(testFile)

	// A hand-edited file that only pins gravity keeps every other default.
	if err := os.WriteFile(testFile, []byte(`{"gravity": [0, -3, 0]}`), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	loaded, err := LoadTuning(testFile)
	if err != nil {
		t.Fatalf("Failed to load tuning: %v", err)
	}
	if loaded.Gravity != (mgl32.Vec3{0, -3, 0}) {
		t.Errorf("Gravity not applied: %v", loaded.Gravity)
	}
	def := DefaultTuning()
	if loaded.SubstepHz != def.SubstepHz || loaded.Muscle.Stiffness != def.Muscle.Stiffness {
		t.Error("Missing fields should fall back to the defaults")
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	if _, err := LoadTuning("does_not_exist.json"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
