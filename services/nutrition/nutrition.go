package nutrition

import (
	"math"
	"strings"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
)

const (
	proteinShare = 0.30
	carbsShare   = 0.40
	fatShare     = 0.30

	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// activityFactors maps fitness level to the multiplier applied to BMR.
var activityFactors = map[string]float64{
	enums.FitnessBeginner:     1.2,
	enums.FitnessIntermediate: 1.55,
	enums.FitnessMedium:       1.55,
	enums.FitnessAdvanced:     1.9,
}

const defaultActivityFactor = 1.2

func BMI(weightKg, heightCm float64) float64 {
	heightM := heightCm / 100
	return weightKg / (heightM * heightM)
}

// BMR uses Mifflin-St Jeor with +161 for female and +5 for everyone else.
func BMR(weightKg, heightCm, age float64, gender string) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*age
	if strings.EqualFold(strings.TrimSpace(gender), enums.GenderFemale) {
		return base + 161
	}
	return base + 5
}

func ActivityFactor(fitnessLevel string) float64 {
	if f, ok := activityFactors[strings.ToLower(strings.TrimSpace(fitnessLevel))]; ok {
		return f
	}
	return defaultActivityFactor
}

func TargetCalories(bmr float64, fitnessLevel string) float64 {
	return bmr * ActivityFactor(fitnessLevel)
}

// Macros splits calories 30/40/30 between protein, carbs and fat, in grams.
func Macros(calories float64) structs.MacroTarget {
	return structs.MacroTarget{
		Calories: calories,
		Protein:  calories * proteinShare / kcalPerGramProtein,
		Carbs:    calories * carbsShare / kcalPerGramCarbs,
		Fat:      calories * fatShare / kcalPerGramFat,
	}
}

// MacroCalories converts grams back into kcal.
func MacroCalories(m structs.MacroTarget) float64 {
	return m.Protein*kcalPerGramProtein + m.Carbs*kcalPerGramCarbs + m.Fat*kcalPerGramFat
}

func Scale(m structs.MacroTarget, factor float64) structs.MacroTarget {
	return structs.MacroTarget{
		Calories: m.Calories * factor,
		Protein:  m.Protein * factor,
		Carbs:    m.Carbs * factor,
		Fat:      m.Fat * factor,
	}
}

// Finite reports whether every component of m is a real number.
func Finite(m structs.MacroTarget) bool {
	for _, v := range []float64{m.Calories, m.Protein, m.Carbs, m.Fat} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
