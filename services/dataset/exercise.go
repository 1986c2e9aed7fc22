package dataset

type Exercise struct {
	Name         string `csv:"ExerciseName"`
	Type         string `csv:"ExerciseType"`
	TargetMuscle string `csv:"TargetMuscle"`
}

var exerciseColumns = []string{"ExerciseName", "ExerciseType"}

func (s *Store) LoadExerciseCatalog() ([]Exercise, error) {
	return decodeFile[Exercise](s.ExercisePath, exerciseColumns, nil)
}
