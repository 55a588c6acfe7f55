package dto

import "time"

type MatchDetailResponse struct {
	MatchID         int64                 `json:"match_id"`
	Partner         PublicProfileResponse `json:"partner"`
	Score           int                   `json:"score"`
	Reasons         []string              `json:"reasons,omitempty"`
	SharedInterests []string              `json:"shared_interests,omitempty"`
	DistanceKM      *float64              `json:"distance_km,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
}

type MatchesResponse struct {
	Items []MatchDetailResponse `json:"items"`
}
