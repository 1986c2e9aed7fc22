package dataset

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/structs"
)

var FeedbackHeader = []string{
	"username", "date", "exercise_name", "category", "actual_reps", "actual_weight", "number_of_sets",
	"pain_level", "intensity", "fitness_level", "gender", "bicep_cm", "chest_cm", "shoulder_cm",
	"lat_cm", "waist_cm", "abs_cm", "thigh_cm", "calf_cm", "blood_sugar_mg_dl", "cholesterol_mg_dl",
	"height_cm", "weight_kg",
}

// Feedback is one logged exercise performance. Numeric columns stay raw so the
// feature builder decides how to treat blanks; ExerciseType and TargetMuscle
// come from the exercise catalog.
type Feedback struct {
	Username        string `csv:"username"`
	Date            string `csv:"date"`
	ExerciseName    string `csv:"exercise_name"`
	Category        string `csv:"category"`
	ActualReps      string `csv:"actual_reps"`
	ActualWeight    string `csv:"actual_weight"`
	NumberOfSets    string `csv:"number_of_sets"`
	PainLevel       string `csv:"pain_level"`
	Intensity       string `csv:"intensity"`
	FitnessLevel    string `csv:"fitness_level"`
	Gender          string `csv:"gender"`
	BicepCm         string `csv:"bicep_cm"`
	ChestCm         string `csv:"chest_cm"`
	ShoulderCm      string `csv:"shoulder_cm"`
	LatCm           string `csv:"lat_cm"`
	WaistCm         string `csv:"waist_cm"`
	AbsCm           string `csv:"abs_cm"`
	ThighCm         string `csv:"thigh_cm"`
	CalfCm          string `csv:"calf_cm"`
	BloodSugarMgDl  string `csv:"blood_sugar_mg_dl"`
	CholesterolMgDl string `csv:"cholesterol_mg_dl"`
	HeightCm        string `csv:"height_cm"`
	WeightKg        string `csv:"weight_kg"`

	ExerciseType string `csv:"-"`
	TargetMuscle string `csv:"-"`
}

var feedbackColumns = []string{"username", "date", "exercise_name"}

// LoadFeedback reads every feedback row merged with the exercise catalog.
// Rows whose exercise is not in the catalog keep empty type and muscle.
func (s *Store) LoadFeedback() ([]Feedback, error) {
	rows, err := decodeFile[Feedback](s.FeedbackPath, feedbackColumns, nil)
	if err != nil {
		return nil, err
	}
	exercises, err := s.LoadExerciseCatalog()
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Exercise, len(exercises))
	for _, e := range exercises {
		if _, ok := byName[e.Name]; !ok {
			byName[e.Name] = e
		}
	}
	for i := range rows {
		if e, ok := byName[rows[i].ExerciseName]; ok {
			rows[i].ExerciseType = e.Type
			rows[i].TargetMuscle = e.TargetMuscle
		}
	}
	return rows, nil
}

// LoadUserFeedback returns the user's rows, newest first.
func (s *Store) LoadUserFeedback(username string) ([]Feedback, error) {
	all, err := s.LoadFeedback()
	if err != nil {
		return nil, err
	}
	var rows []Feedback
	for _, row := range all {
		if row.Username == username {
			rows = append(rows, row)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows, nil
}

// AppendFeedback appends one entry, rounding numeric values.
func (s *Store) AppendFeedback(p structs.SaveFeedbackParam) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := EnsureFile(s.FeedbackPath, FeedbackHeader); err != nil {
		return err
	}
	row := map[string]string{
		"username":          p.Username,
		"date":              p.Date,
		"exercise_name":     p.ExerciseName,
		"category":          p.Category,
		"actual_reps":       roundCell(p.ActualReps),
		"actual_weight":     roundCell(p.ActualWeight),
		"number_of_sets":    roundCell(p.NumberOfSets),
		"pain_level":        roundCell(p.PainLevel),
		"intensity":         strings.ToLower(strings.TrimSpace(p.Intensity)),
		"fitness_level":     p.FitnessLevel,
		"gender":            p.Gender,
		"bicep_cm":          roundCell(p.BicepCm),
		"chest_cm":          roundCell(p.ChestCm),
		"shoulder_cm":       roundCell(p.ShoulderCm),
		"lat_cm":            roundCell(p.LatCm),
		"waist_cm":          roundCell(p.WaistCm),
		"abs_cm":            roundCell(p.AbsCm),
		"thigh_cm":          roundCell(p.ThighCm),
		"calf_cm":           roundCell(p.CalfCm),
		"blood_sugar_mg_dl": roundCell(p.BloodSugarMgDl),
		"cholesterol_mg_dl": roundCell(p.CholesterolMgDl),
		"height_cm":         roundCell(p.HeightCm),
		"weight_kg":         roundCell(p.WeightKg),
	}
	if err := appendRow(s.FeedbackPath, row); err != nil {
		return fmt.Errorf("append feedback: %w", err)
	}
	return nil
}

type FeedbackSummary struct {
	Category     string `json:"category"`
	ExerciseName string `json:"exercise_name"`
}

// FeedbackOn lists what the user logged on date, matching the username case-insensitively.
func (s *Store) FeedbackOn(username, date string) ([]FeedbackSummary, error) {
	rows, err := decodeFile[Feedback](s.FeedbackPath, feedbackColumns, nil)
	if err != nil {
		return nil, err
	}
	var out []FeedbackSummary
	for _, row := range rows {
		if strings.EqualFold(row.Username, username) && row.Date == date {
			out = append(out, FeedbackSummary{Category: row.Category, ExerciseName: row.ExerciseName})
		}
	}
	return out, nil
}
