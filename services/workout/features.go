package workout

import (
	"fmt"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
)

// FeatureNames is the column order of every feature vector.
var FeatureNames = []string{
	"pain_level", "intensity", "gender", "fitness_level",
	"bicep_cm", "chest_cm", "shoulder_cm", "lat_cm", "waist_cm", "abs_cm", "thigh_cm", "calf_cm",
	"blood_sugar_mg_dl", "cholesterol_mg_dl", "height_cm", "weight_kg",
	"bmi", "waist_to_height", "volume", "est_1rm", "overload", "bodypart_volume",
}

var FeatureCount = len(FeatureNames)

var intensityScores = map[string]float64{
	enums.IntensityLow:      3,
	enums.IntensityModerate: 6,
	enums.IntensityMedium:   6,
	enums.IntensityHigh:     9,
}

const defaultIntensity = 6

var fitnessCodes = map[string]float64{
	enums.FitnessBeginner:     0,
	enums.FitnessIntermediate: 1,
	enums.FitnessAdvanced:     2,
}

const defaultFitnessCode = 1

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IntensityScore maps an intensity label to its score; ok is false for labels
// outside the map, in which case the default score is returned.
func IntensityScore(label string) (score float64, ok bool) {
	if s, found := intensityScores[normalize(label)]; found {
		return s, true
	}
	return defaultIntensity, false
}

func GenderFlag(gender string) float64 {
	if normalize(gender) == enums.GenderMale {
		return 1
	}
	return 0
}

func FitnessCode(level string) float64 {
	if c, ok := fitnessCodes[normalize(level)]; ok {
		return c
	}
	return defaultFitnessCode
}

func Volume(reps, weight, sets float64) float64 {
	return reps * weight * sets
}

// EstimatedOneRepMax uses the Epley formula.
func EstimatedOneRepMax(weight, reps float64) float64 {
	return weight * (1 + reps/30)
}

// Overload is the relative change in volume; 0 when there is nothing to compare against.
func Overload(current, previous float64, hasPrevious bool) float64 {
	if !hasPrevious || previous == 0 {
		return 0
	}
	return (current - previous) / previous
}

// session holds the parsed numeric columns of one feedback row.
type session struct {
	reps, weight, sets float64
	pain               float64
	measurements       [12]float64
}

var measurementColumns = [12]string{
	"bicep_cm", "chest_cm", "shoulder_cm", "lat_cm", "waist_cm", "abs_cm", "thigh_cm", "calf_cm",
	"blood_sugar_mg_dl", "cholesterol_mg_dl", "height_cm", "weight_kg",
}

type cell struct {
	column string
	raw    string
	dst    *float64
}

func parseCells(f dataset.Feedback, cells []cell) error {
	for _, c := range cells {
		v, err := dataset.ParseNumber(c.raw)
		if err != nil {
			return fmt.Errorf("feedback %s on %s: column %q: %w", f.ExerciseName, f.Date, c.column, err)
		}
		*c.dst = v
	}
	return nil
}

func volumeCells(f dataset.Feedback, s *session) []cell {
	return []cell{
		{"actual_reps", f.ActualReps, &s.reps},
		{"actual_weight", f.ActualWeight, &s.weight},
		{"number_of_sets", f.NumberOfSets, &s.sets},
	}
}

func parseSession(f dataset.Feedback) (session, error) {
	var s session
	cells := append(volumeCells(f, &s), cell{"pain_level", f.PainLevel, &s.pain})
	raw := [12]string{
		f.BicepCm, f.ChestCm, f.ShoulderCm, f.LatCm, f.WaistCm, f.AbsCm, f.ThighCm, f.CalfCm,
		f.BloodSugarMgDl, f.CholesterolMgDl, f.HeightCm, f.WeightKg,
	}
	for i := range raw {
		cells = append(cells, cell{measurementColumns[i], raw[i], &s.measurements[i]})
	}
	if err := parseCells(f, cells); err != nil {
		return session{}, err
	}
	return s, nil
}

// parseVolume reads only the columns the session volume needs.
func parseVolume(f dataset.Feedback) (float64, error) {
	var s session
	if err := parseCells(f, volumeCells(f, &s)); err != nil {
		return 0, err
	}
	return s.volume(), nil
}

func (s session) volume() float64 {
	return Volume(s.reps, s.weight, s.sets)
}

// vector lays out the 22 features given the categorical codes and overload.
func (s session) vector(intensity, gender, fitness, overload float64) []float64 {
	height := s.measurements[10]
	weight := s.measurements[11]
	waist := s.measurements[4]
	heightM := height / 100
	volume := s.volume()

	out := make([]float64, 0, FeatureCount)
	out = append(out, s.pain, intensity, gender, fitness)
	out = append(out, s.measurements[:]...)
	out = append(out,
		weight/(heightM*heightM),
		waist/height,
		volume,
		EstimatedOneRepMax(s.weight, s.reps),
		overload,
		volume, // bodypart volume: one session covers one target muscle
	)
	return out
}

// Features builds the vector for the current entry; previous may be nil.
func Features(current dataset.Feedback, previous *dataset.Feedback) ([]float64, error) {
	cur, err := parseSession(current)
	if err != nil {
		return nil, err
	}
	overload := 0.0
	if previous != nil {
		prev, err := parseVolume(*previous)
		if err != nil {
			return nil, err
		}
		overload = Overload(cur.volume(), prev, true)
	}
	intensity, _ := IntensityScore(current.Intensity)
	return cur.vector(intensity, GenderFlag(current.Gender), FitnessCode(current.FitnessLevel), overload), nil
}
