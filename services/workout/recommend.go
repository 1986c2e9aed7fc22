package workout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/sirupsen/logrus"
)

var ErrNoFeedback = errors.New("no feedback logs found")

type WorkoutService struct {
	store    *dataset.Store
	registry *Registry
}

func NewWorkoutService(store *dataset.Store, registry *Registry) *WorkoutService {
	return &WorkoutService{store: store, registry: registry}
}

// Recommend predicts reps and weight for every catalog exercise from the
// user's latest feedback and returns a balanced plan capped by fitness level.
// Every exercise is scored with the same feature vector.
func (w *WorkoutService) Recommend(username string) ([]structs.WorkoutItem, error) {
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.RecommendWorkout, "username": username})

	model := w.registry.Current()
	if model == nil {
		return nil, ErrModelNotLoaded
	}

	history, err := w.store.LoadUserFeedback(username)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w for user %s", ErrNoFeedback, username)
	}
	current := history[0]
	var previous *dataset.Feedback
	if len(history) > 1 {
		previous = &history[1]
	}

	features, err := Features(current, previous)
	if err != nil {
		return nil, err
	}
	pred, err := model.Predict(features)
	if err != nil {
		return nil, err
	}
	reps := int(math.RoundToEven(pred[0]))
	weight := int(math.RoundToEven(pred[1]))

	exercises, err := w.store.LoadExerciseCatalog()
	if err != nil {
		return nil, err
	}
	candidates := make([]structs.WorkoutItem, 0, len(exercises))
	for _, e := range exercises {
		muscle := strings.TrimSpace(e.TargetMuscle)
		if muscle == "" {
			muscle = enums.UnknownMuscle
		}
		candidates = append(candidates, structs.WorkoutItem{
			Name:        e.Name,
			Type:        e.Type,
			Reps:        reps,
			Weight:      weight,
			MuscleGroup: muscle,
		})
	}

	limit := ExerciseLimit(current.FitnessLevel)
	plan := Select(candidates, limit)
	logger.WithFields(logrus.Fields{"limit": limit, "selected": len(plan), "latest": current.Date}).Info("workout plan generated")
	return plan, nil
}
