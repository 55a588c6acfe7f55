package dto

type PartnerSuggestionResponse struct {
	Profile         PublicProfileResponse `json:"profile"`
	Score           int                   `json:"score"`
	Reasons         []string              `json:"reasons"`
	SharedInterests []string              `json:"shared_interests"`
	DistanceKM      *float64              `json:"distance_km,omitempty"`
}

type PartnersResponse struct {
	Items []PartnerSuggestionResponse `json:"items"`
}
