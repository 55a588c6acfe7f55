package dto

type PreferencesResponse struct {
	MaxDistanceKM   float64  `json:"max_distance_km"`
	MinFitnessLevel *int     `json:"min_fitness_level,omitempty"`
	MaxFitnessLevel *int     `json:"max_fitness_level,omitempty"`
	AgeMin          *int     `json:"age_min,omitempty"`
	AgeMax          *int     `json:"age_max,omitempty"`
	MaxClassPrice   *float64 `json:"max_class_price,omitempty"`
}

type PreferencesUpdateRequest struct {
	MaxDistanceKM   *float64 `json:"max_distance_km,omitempty"`
	MinFitnessLevel *int     `json:"min_fitness_level,omitempty"`
	MaxFitnessLevel *int     `json:"max_fitness_level,omitempty"`
	AgeMin          *int     `json:"age_min,omitempty"`
	AgeMax          *int     `json:"age_max,omitempty"`
	MaxClassPrice   *float64 `json:"max_class_price,omitempty"`
	ClearPrice      bool     `json:"clear_price,omitempty"`
}
