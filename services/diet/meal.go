package diet

import (
	"errors"
	"math"
	"sort"

	"github.com/Jeshoorin/Gym-Suggestions/services/dataset"
	"github.com/Jeshoorin/Gym-Suggestions/services/nutrition"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
)

const (
	scoreEpsilon = 1e-6
	ceiling      = 1.05
)

var ErrInvalidTarget = errors.New("meal target is not a finite number")

// weights for calories, protein, carbs, fat
var scoreWeights = [macroWidth]float64{0.4, 0.3, 0.2, 0.1}

func macrosOf(item dataset.FoodItem) [macroWidth]float64 {
	return [macroWidth]float64{item.Calories, item.ProteinG, item.CarbsG, item.FatG}
}

func targetOf(m structs.MacroTarget) [macroWidth]float64 {
	return [macroWidth]float64{m.Calories, m.Protein, m.Carbs, m.Fat}
}

// Score rates how close item is to the remaining need, between 0 and 1.
func Score(item dataset.FoodItem, remaining structs.MacroTarget) float64 {
	values := macrosOf(item)
	need := targetOf(remaining)
	score := 0.0
	for k := range values {
		closeness := 1 - math.Abs(values[k]-need[k])/(need[k]+scoreEpsilon)
		score += math.Max(0, closeness) * scoreWeights[k]
	}
	return score
}

func usable(item dataset.FoodItem) bool {
	for _, v := range macrosOf(item) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// SelectMeal greedily picks items closest to what is still missing from target,
// as long as no running total goes past 105% of its target. Items in used and
// items already picked are never chosen. Ties keep catalog order.
func SelectMeal(items []dataset.FoodItem, target structs.MacroTarget, used map[string]bool) ([]string, error) {
	if !nutrition.Finite(target) {
		return nil, ErrInvalidTarget
	}

	pool := make([]dataset.FoodItem, 0, len(items))
	for _, item := range items {
		if !used[item.Name] && usable(item) {
			pool = append(pool, item)
		}
	}

	limit := targetOf(target)
	for k := range limit {
		limit[k] *= ceiling
	}

	selected := []string{}
	var total [macroWidth]float64
	for len(pool) > 0 {
		remaining := structs.MacroTarget{
			Calories: target.Calories - total[0],
			Protein:  target.Protein - total[1],
			Carbs:    target.Carbs - total[2],
			Fat:      target.Fat - total[3],
		}
		order := make([]int, len(pool))
		scores := make([]float64, len(pool))
		for i, item := range pool {
			order[i] = i
			scores[i] = Score(item, remaining)
		}
		sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

		picked := -1
		for _, i := range order {
			if fits(total, macrosOf(pool[i]), limit) {
				picked = i
				break
			}
		}
		if picked < 0 {
			break
		}

		values := macrosOf(pool[picked])
		for k := range total {
			total[k] += values[k]
		}
		name := pool[picked].Name
		selected = append(selected, name)
		rest := pool[:0]
		for _, item := range pool {
			if item.Name != name {
				rest = append(rest, item)
			}
		}
		pool = rest
	}
	return selected, nil
}

func fits(total, add, limit [macroWidth]float64) bool {
	for k := range total {
		if total[k]+add[k] > limit[k] {
			return false
		}
	}
	return true
}
