package dto

type PhotoResponse struct {
	URL string `json:"url"`
}
