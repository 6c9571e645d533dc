package meals

// Metrics summarises a user's meals
type Metrics struct {
	TotalMeals    int `json:"totalMeals"`
	TotalDiets    int `json:"totalDiets"`
	TotalNotDiets int `json:"totalNotDiets"`
	SequenceMeals int `json:"sequenceMeals"`
}

// ComputeMetrics counts meals and finds the longest run of consecutive
// diet meals in the given order (date descending at the call site).
func ComputeMetrics(meals []Meal) Metrics {
	var m Metrics
	sequence := 0

	for _, meal := range meals {
		m.TotalMeals++

		if !meal.Diet {
			m.TotalNotDiets++
			sequence = 0
			continue
		}

		m.TotalDiets++
		sequence++
		if sequence > m.SequenceMeals {
			m.SequenceMeals = sequence
		}
	}

	return m
}
