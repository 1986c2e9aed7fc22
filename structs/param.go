package structs

// RecommendParam is the body of both recommendation endpoints.
type RecommendParam struct {
	Username string `json:"username" form:"username" binding:"required"`
}

// TrainQueueParam is the message consumed from the training queues.
type TrainQueueParam struct {
	Type      string `json:"type" form:"type"`
	Username  string `json:"username" form:"username"`
	TaskID    uint   `json:"task_id" form:"task_id"`
	QueueType string `json:"queue_type" form:"queue_type"`
}

type SaveDietParam struct {
	Username string   `json:"username" binding:"required"`
	Date     string   `json:"date"`
	WeightKg float64  `json:"weight_kg"`
	MealType string   `json:"meal_type" binding:"required"`
	Calories float64  `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	FoodItem []string `json:"fooditem" binding:"required"`
}

type SaveFeedbackParam struct {
	Username        string  `json:"username" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	ExerciseName    string  `json:"exercise_name" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	ActualReps      float64 `json:"actual_reps"`
	ActualWeight    float64 `json:"actual_weight"`
	NumberOfSets    float64 `json:"number_of_sets"`
	PainLevel       float64 `json:"pain_level"`
	Intensity       string  `json:"intensity"`
	FitnessLevel    string  `json:"fitness_level"`
	Gender          string  `json:"gender"`
	BicepCm         float64 `json:"bicep_cm"`
	ChestCm         float64 `json:"chest_cm"`
	ShoulderCm      float64 `json:"shoulder_cm"`
	LatCm           float64 `json:"lat_cm"`
	WaistCm         float64 `json:"waist_cm"`
	AbsCm           float64 `json:"abs_cm"`
	ThighCm         float64 `json:"thigh_cm"`
	CalfCm          float64 `json:"calf_cm"`
	BloodSugarMgDl  float64 `json:"blood_sugar_mg_dl"`
	CholesterolMgDl float64 `json:"cholesterol_mg_dl"`
	HeightCm        float64 `json:"height_cm"`
	WeightKg        float64 `json:"weight_kg"`
}

// SaveProfileParam accepts any profile column; empty values leave the stored value untouched.
type SaveProfileParam map[string]interface{}
