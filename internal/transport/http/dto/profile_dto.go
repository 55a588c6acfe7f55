package dto

type PrivacyPayload struct {
	HideAge          bool `json:"hide_age"`
	HideLocation     bool `json:"hide_location"`
	HideFitnessLevel bool `json:"hide_fitness_level"`
	HideAvailability bool `json:"hide_availability"`
}

type ProfileCoreRequest struct {
	DisplayName  string              `json:"display_name"`
	Birthdate    string              `json:"birthdate,omitempty"`
	FitnessLevel *int                `json:"fitness_level,omitempty"`
	Interests    []string            `json:"interests"`
	Availability map[string][]string `json:"availability"`
	Privacy      PrivacyPayload      `json:"privacy"`
}

type ProfileCoreResponse struct {
	OK bool `json:"ok"`
}

// ProfileResponse is the owner's view, no privacy redaction applied.
type ProfileResponse struct {
	UserID       int64               `json:"user_id"`
	DisplayName  string              `json:"display_name"`
	Birthdate    string              `json:"birthdate,omitempty"`
	Age          *int                `json:"age,omitempty"`
	FitnessLevel *int                `json:"fitness_level,omitempty"`
	Interests    []string            `json:"interests"`
	Availability map[string][]string `json:"availability"`
	Lat          *float64            `json:"lat,omitempty"`
	Lon          *float64            `json:"lon,omitempty"`
	Privacy      PrivacyPayload      `json:"privacy"`
}

// PublicProfileResponse is what other users see after redaction.
type PublicProfileResponse struct {
	UserID       int64               `json:"user_id"`
	DisplayName  string              `json:"display_name"`
	Age          *int                `json:"age,omitempty"`
	FitnessLevel *int                `json:"fitness_level,omitempty"`
	Interests    []string            `json:"interests"`
	Availability map[string][]string `json:"availability,omitempty"`
	PhotoURL     *string             `json:"photo_url,omitempty"`
}
