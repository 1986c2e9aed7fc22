package workout

import (
	"math/rand"
	"sort"

	"github.com/Jeshoorin/Gym-Suggestions/enums"
	"github.com/Jeshoorin/Gym-Suggestions/structs"
)

const (
	perTypeQuota   = 2
	selectionSeed  = 42
	defaultMaxSize = 6
)

var exerciseLimits = map[string]int{
	enums.FitnessBeginner:     4,
	enums.FitnessIntermediate: 6,
	enums.FitnessAdvanced:     8,
}

// ExerciseLimit is the most exercises a plan may hold for a fitness level.
func ExerciseLimit(fitnessLevel string) int {
	if n, ok := exerciseLimits[normalize(fitnessLevel)]; ok {
		return n
	}
	return defaultMaxSize
}

// Select picks up to two distinct exercises from each of Upper, Lower and
// Core, interleaved so that any prefix stays balanced, then fills the rest of
// the limit with the highest reps+weight candidates and truncates to limit.
func Select(candidates []structs.WorkoutItem, limit int) []structs.WorkoutItem {
	buckets := make([][]structs.WorkoutItem, len(enums.ExerciseTypeOrder))
	for b, exerciseType := range enums.ExerciseTypeOrder {
		seen := make(map[string]bool)
		var subset []structs.WorkoutItem
		for _, c := range candidates {
			if c.Type == exerciseType && !seen[c.Name] {
				seen[c.Name] = true
				subset = append(subset, c)
			}
		}
		buckets[b] = sampleItems(subset, perTypeQuota)
	}

	var selected []structs.WorkoutItem
	chosen := make(map[string]bool)
	for round := 0; round < perTypeQuota; round++ {
		for _, bucket := range buckets {
			if round < len(bucket) && !chosen[bucket[round].Name] {
				chosen[bucket[round].Name] = true
				selected = append(selected, bucket[round])
			}
		}
	}

	if len(selected) < limit {
		var rest []structs.WorkoutItem
		for _, c := range candidates {
			if !chosen[c.Name] {
				chosen[c.Name] = true
				rest = append(rest, c)
			}
		}
		sort.SliceStable(rest, func(i, j int) bool {
			return rest[i].Reps+rest[i].Weight > rest[j].Reps+rest[j].Weight
		})
		for _, c := range rest {
			if len(selected) >= limit {
				break
			}
			selected = append(selected, c)
		}
	}

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// sampleItems draws n items without replacement, seeded so the same input
// always yields the same sample.
func sampleItems(items []structs.WorkoutItem, n int) []structs.WorkoutItem {
	if n > len(items) {
		n = len(items)
	}
	rng := rand.New(rand.NewSource(selectionSeed))
	out := make([]structs.WorkoutItem, 0, n)
	for _, i := range rng.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}
