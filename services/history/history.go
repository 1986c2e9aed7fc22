package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/models"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

const bulkChunkSize = 3000

// Recorder writes audit rows. A Recorder without a database does nothing.
type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

func (r *Recorder) Enabled() bool {
	return r != nil && r.db != nil
}

// Activity stores data as JSON in the activity log under logName.
func (r *Recorder) Activity(logName, username string, data interface{}) error {
	if !r.Enabled() {
		return nil
	}
	properties, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	now := time.Now()
	entity := models.ActivityLog{
		LogName:     logName,
		Description: "gym-suggestions worker log",
		SubjectType: enums.SubjectUser,
		Username:    username,
		Properties:  string(properties),
		CreatedAt:   &now,
		UpdatedAt:   &now,
	}
	return r.db.Create(&entity).Error
}

// DietItems flattens a meal plan into rows, one per food in serving order.
func DietItems(batchID, username string, plan structs.MealPlan, catalog map[string]structs.MacroTarget, at time.Time) []models.RecommendationItem {
	var rows []models.RecommendationItem
	meals := []struct {
		slot string
		meal structs.Meal
	}{
		{enums.MealBreakfast, plan.Breakfast},
		{enums.MealLunch, plan.Lunch},
		{enums.MealDinner, plan.Dinner},
	}
	for _, m := range meals {
		for i, name := range m.meal.Items {
			macros := catalog[name]
			rows = append(rows, models.RecommendationItem{
				BatchID:   batchID,
				Username:  username,
				Kind:      enums.RecommendDiet,
				Slot:      m.slot,
				Position:  i,
				Name:      name,
				Calories:  macros.Calories,
				Protein:   macros.Protein,
				Carbs:     macros.Carbs,
				Fat:       macros.Fat,
				CreatedAt: at,
			})
		}
	}
	return rows
}

func WorkoutItems(batchID, username string, plan []structs.WorkoutItem, at time.Time) []models.RecommendationItem {
	rows := make([]models.RecommendationItem, 0, len(plan))
	for i, item := range plan {
		rows = append(rows, models.RecommendationItem{
			BatchID:     batchID,
			Username:    username,
			Kind:        enums.RecommendWorkout,
			Slot:        item.Type,
			Position:    i,
			Name:        item.Name,
			Reps:        item.Reps,
			Weight:      item.Weight,
			MuscleGroup: item.MuscleGroup,
			CreatedAt:   at,
		})
	}
	return rows
}

// RecordDiet stores every food of plan and returns the batch id, or "" when disabled.
func (r *Recorder) RecordDiet(username string, plan structs.MealPlan, catalog map[string]structs.MacroTarget) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	batchID := uuid.NewString()
	return batchID, r.insert(enums.RecommendDiet, username, DietItems(batchID, username, plan, catalog, time.Now()))
}

func (r *Recorder) RecordWorkout(username string, plan []structs.WorkoutItem) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	batchID := uuid.NewString()
	return batchID, r.insert(enums.RecommendWorkout, username, WorkoutItems(batchID, username, plan, time.Now()))
}

func (r *Recorder) insert(kind, username string, rows []models.RecommendationItem) error {
	if len(rows) == 0 {
		return nil
	}
	records := make([]interface{}, len(rows))
	for i := range rows {
		records[i] = rows[i]
	}

	tx := r.db.Begin()
	if err := gormbulk.BulkInsert(tx, records, bulkChunkSize); err != nil {
		tx.Rollback()
		trackLog.Entry().WithFields(logrus.Fields{"task": kind, "username": username}).Error("bulk insert failed: ", err.Error())
		return err
	}
	return tx.Commit().Error
}
