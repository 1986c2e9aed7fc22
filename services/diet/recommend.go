package diet

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/nutrition"
	"github.com/Jeshoorin/Gym-Suggestions/services/trackLog"
	"github.com/Jeshoorin/Gym-Suggestions/structs"

	"github.com/sirupsen/logrus"
)

var ErrNoRecommendation = errors.New("no recommendation generated")

// mealSplits is the share of the daily target each meal gets, in serving order.
var mealSplits = []struct {
	meal  string
	share float64
}{
	{enums.MealBreakfast, 0.3},
	{enums.MealLunch, 0.4},
	{enums.MealDinner, 0.3},
}

// DietService builds one meal plan. Create one per request; the store and the
// trend predictor are shared.
type DietService struct {
	sync.Mutex
	store  *dataset.Store
	trend  *TrendPredictor
	Errors []structs.ErrorModel
	// Foods holds the macros of every item in the last plan, by name.
	Foods map[string]structs.MacroTarget
}

func NewDietService(store *dataset.Store, trend *TrendPredictor) *DietService {
	return &DietService{store: store, trend: trend}
}

// Recommend runs profile -> target macros -> trend -> restriction filter ->
// three meals. A meal whose selection fails is returned with no items and the
// failure recorded in Errors.
func (d *DietService) Recommend(username string) (structs.MealPlan, error) {
	logger := trackLog.Entry().WithFields(logrus.Fields{"task": enums.RecommendDiet, "username": username})

	profile, err := d.store.LoadProfile(username)
	if err != nil {
		return structs.MealPlan{}, fmt.Errorf("load profile: %w", err)
	}
	logs, err := d.store.LoadDietLogs(username)
	if err != nil {
		return structs.MealPlan{}, fmt.Errorf("load diet logs: %w", err)
	}
	catalog, err := d.store.LoadFoodCatalog()
	if err != nil {
		return structs.MealPlan{}, fmt.Errorf("load food items: %w", err)
	}

	bmi := nutrition.BMI(profile.WeightKg, profile.HeightCm)
	bmr := nutrition.BMR(profile.WeightKg, profile.HeightCm, profile.Age, profile.Gender)
	target := nutrition.Macros(nutrition.TargetCalories(bmr, profile.FitnessLevel))
	logger.WithFields(logrus.Fields{"bmi": bmi, "bmr": bmr, "calories": target.Calories}).Info("target macros computed")

	daily, source, err := d.trend.Predict(username, logs, target)
	if err != nil {
		return structs.MealPlan{}, fmt.Errorf("predict macro trend: %w", err)
	}
	logger.WithFields(logrus.Fields{"source": source, "rows": len(logs), "calories": daily.Calories}).Info("daily macros predicted")

	foods := dataset.FilterByRestrictions(catalog, profile.DietaryRestrictions)
	used := make(map[string]bool)
	d.Foods = make(map[string]structs.MacroTarget)
	meals := make(map[string]structs.Meal, len(mealSplits))
	for _, split := range mealSplits {
		macros := nutrition.Scale(daily, split.share)
		items, err := SelectMeal(foods.Items, macros, used)
		if err != nil {
			logger.WithField("meal", split.meal).Error(err.Error())
			d.addError(username, split.meal, err)
			items = []string{}
		}
		for _, name := range items {
			used[name] = true
		}
		for _, item := range foods.Items {
			if used[item.Name] {
				if _, seen := d.Foods[item.Name]; !seen {
					d.Foods[item.Name] = structs.MacroTarget{Calories: item.Calories, Protein: item.ProteinG, Carbs: item.CarbsG, Fat: item.FatG}
				}
			}
		}
		meals[split.meal] = structs.Meal{Items: items, Macros: macros}
	}

	return structs.MealPlan{
		Breakfast: meals[enums.MealBreakfast],
		Lunch:     meals[enums.MealLunch],
		Dinner:    meals[enums.MealDinner],
	}, nil
}

// Precompute trains and caches the trend for one user without building a plan.
func (d *DietService) Precompute(username string) (bool, error) {
	logs, err := d.store.LoadDietLogs(username)
	if err != nil {
		return false, err
	}
	return d.trend.Precompute(username, logs)
}

func (d *DietService) addError(username, stage string, err error) {
	d.Lock()
	defer d.Unlock()
	d.Errors = append(d.Errors, structs.ErrorModel{Username: username, Stage: stage, ErrorMessage: err.Error()})
}
