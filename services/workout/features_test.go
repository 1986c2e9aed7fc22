package workout

import (
	"math"
	"testing"

	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
)

func feedbackRow(date, reps, weight, sets string) dataset.Feedback {
	return dataset.Feedback{
		Username: "alice", Date: date, ExerciseName: "Squats", Category: "strength",
		ActualReps: reps, ActualWeight: weight, NumberOfSets: sets, PainLevel: "2",
		Intensity: "High", FitnessLevel: "beginner", Gender: "female",
		BicepCm: "30", ChestCm: "90", ShoulderCm: "100", LatCm: "95", WaistCm: "70", AbsCm: "75",
		ThighCm: "55", CalfCm: "35", BloodSugarMgDl: "90", CholesterolMgDl: "180",
		HeightCm: "160", WeightKg: "64",
		ExerciseType: "Lower", TargetMuscle: "Quads",
	}
}

func TestOverload(t *testing.T) {
	cases := []struct {
		name              string
		current, previous float64
		hasPrevious       bool
		want              float64
	}{
		{"no previous entry", 150, 0, false, 0},
		{"previous volume zero", 150, 0, true, 0},
		{"fifty percent up", 150, 100, true, 0.5},
		{"drop", 50, 100, true, -0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overload(tc.current, tc.previous, tc.hasPrevious); got != tc.want {
				t.Fatalf("Overload(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
			}
		})
	}
}

func TestFeatures(t *testing.T) {
	current := feedbackRow("2024-01-02", "10", "15", "1")
	previous := feedbackRow("2024-01-01", "10", "10", "1")

	features, err := Features(current, &previous)
	if err != nil {
		t.Fatalf("features: %v", err)
	}
	if len(features) != FeatureCount || FeatureCount != 22 {
		t.Fatalf("expected 22 features, got %d", len(features))
	}
	want := map[int]float64{
		0:  2,   // pain
		1:  9,   // intensity
		2:  0,   // gender
		3:  0,   // fitness
		4:  30,  // bicep
		15: 64,  // weight
		16: 25,  // bmi
		18: 150, // volume
		20: 0.5, // overload
		21: 150, // bodypart volume
	}
	for i, v := range want {
		if math.Abs(features[i]-v) > 1e-9 {
			t.Errorf("feature %s = %v, want %v", FeatureNames[i], features[i], v)
		}
	}
	if math.Abs(features[17]-70.0/160.0) > 1e-12 {
		t.Errorf("waist to height = %v", features[17])
	}
	if math.Abs(features[19]-15*(1+10.0/30)) > 1e-12 {
		t.Errorf("est 1rm = %v", features[19])
	}

	single, err := Features(current, nil)
	if err != nil || single[20] != 0 {
		t.Fatalf("single entry should have zero overload, got %v (%v)", single, err)
	}

	broken := current
	broken.ChestCm = "n/a"
	if _, err := Features(broken, nil); err == nil {
		t.Fatal("expected error for non-numeric measurement")
	}
}

func TestCategoricalCodes(t *testing.T) {
	if s, ok := IntensityScore(" Moderate "); !ok || s != 6 {
		t.Fatalf("moderate = %v %v", s, ok)
	}
	if s, ok := IntensityScore("extreme"); ok || s != 6 {
		t.Fatalf("unknown intensity should default to 6, got %v %v", s, ok)
	}
	if s, _ := IntensityScore("low"); s != 3 {
		t.Fatalf("low = %v", s)
	}
	if GenderFlag("Male") != 1 || GenderFlag("female") != 0 || GenderFlag("") != 0 {
		t.Fatal("unexpected gender flags")
	}
	if FitnessCode("beginner") != 0 || FitnessCode("ADVANCED") != 2 || FitnessCode("pro") != 1 {
		t.Fatal("unexpected fitness codes")
	}
}
