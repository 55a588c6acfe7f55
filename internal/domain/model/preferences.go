package model

import "time"

const DefaultMaxDistanceKM = 10.0

// MatchPreferences is the per-user matching configuration. A record is
// created lazily with defaults on first access.
type MatchPreferences struct {
	UserID          int64
	MaxDistanceKM   float64
	MinFitnessLevel *int
	MaxFitnessLevel *int
	AgeMin          *int
	AgeMax          *int
	MaxClassPrice   *float64
	UpdatedAt       time.Time
}

func DefaultPreferences(userID int64) MatchPreferences {
	return MatchPreferences{
		UserID:        userID,
		MaxDistanceKM: DefaultMaxDistanceKM,
	}
}
