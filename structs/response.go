package structs

type MacroTarget struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Meal struct {
	Items  []string    `json:"items"`
	Macros MacroTarget `json:"macros"`
}

type MealPlan struct {
	Breakfast Meal `json:"breakfast"`
	Lunch     Meal `json:"lunch"`
	Dinner    Meal `json:"dinner"`
}

type WorkoutItem struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Reps        int    `json:"reps"`
	Weight      int    `json:"weight"`
	MuscleGroup string `json:"muscle_group"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// MismatchQueueResponse is posted back when a message arrives on the wrong queue.
type MismatchQueueResponse struct {
	TaskId uint   `json:"task_id"`
	Queue  string `json:"queue"`
}
