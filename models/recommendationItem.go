package models

import "time"

// RecommendationItem is one food or exercise handed out in a recommendation.
// Items from the same response share a BatchID.
type RecommendationItem struct {
	ID          int64     `gorm:"column:id;primary_key" json:"id"`
	BatchID     string    `gorm:"column:batch_id;index" json:"batch_id"`
	Username    string    `gorm:"column:username;index" json:"username"`
	Kind        string    `gorm:"column:kind" json:"kind"`
	Slot        string    `gorm:"column:slot" json:"slot"`
	Position    int       `gorm:"column:position" json:"position"`
	Name        string    `gorm:"column:name" json:"name"`
	Calories    float64   `gorm:"column:calories" json:"calories"`
	Protein     float64   `gorm:"column:protein" json:"protein"`
	Carbs       float64   `gorm:"column:carbs" json:"carbs"`
	Fat         float64   `gorm:"column:fat" json:"fat"`
	Reps        int       `gorm:"column:reps" json:"reps"`
	Weight      int       `gorm:"column:weight" json:"weight"`
	MuscleGroup string    `gorm:"column:muscle_group" json:"muscle_group"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName sets the insert table name for this struct type
func (RecommendationItem) TableName() string {
	return "recommendation_item"
}
