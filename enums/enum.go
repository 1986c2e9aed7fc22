package enums

const (
	ProcessSingle = "SINGLE"
	ProcessAll    = "ALL"

	QueueWorkoutTrain = "workout-train"
	QueueDietTrend    = "diet-trend"

	GenderMale   = "male"
	GenderFemale = "female"

	FitnessBeginner     = "beginner"
	FitnessIntermediate = "intermediate"
	FitnessMedium       = "medium"
	FitnessAdvanced     = "advanced"

	IntensityLow      = "low"
	IntensityModerate = "moderate"
	IntensityMedium   = "medium"
	IntensityHigh     = "high"

	ExerciseUpper = "Upper"
	ExerciseLower = "Lower"
	ExerciseCore  = "Core"

	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"

	RecommendDiet    = "diet"
	RecommendWorkout = "workout"

	UnknownMuscle = "Unknown"

	SubjectUser = "user"
	SubjectJob  = "job"

	LogJobInit      = "schedule.go.job.init"
	LogJobReceived  = "schedule.go.job.received"
	LogJobDone      = "schedule.go.job.done"
	LogRecommend    = "recommend"
	LogModelTrained = "model.trained"
)

// ExerciseTypeOrder is the bucket order used when balancing a workout.
var ExerciseTypeOrder = []string{ExerciseUpper, ExerciseLower, ExerciseCore}
