package dto

import "time"

type ClassResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Intensity int       `json:"intensity"`
	Price     float64   `json:"price"`
	StartsAt  time.Time `json:"starts_at"`
	Tags      []string  `json:"tags"`
}

type ClassSuggestionResponse struct {
	Class      ClassResponse `json:"class"`
	Score      int           `json:"score"`
	Fit        string        `json:"fit"`
	Reasons    []string      `json:"reasons"`
	DistanceKM *float64      `json:"distance_km,omitempty"`
}

type ClassesResponse struct {
	Items []ClassSuggestionResponse `json:"items"`
}

type ClassCreateRequest struct {
	Title     string    `json:"title"`
	Lat       *float64  `json:"lat"`
	Lon       *float64  `json:"lon"`
	Intensity int       `json:"intensity"`
	Price     float64   `json:"price"`
	StartsAt  time.Time `json:"starts_at"`
	Tags      []string  `json:"tags"`
}

type ClassCreateResponse struct {
	ID int64 `json:"id"`
}
