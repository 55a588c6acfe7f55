package model

import "time"

// Profile is the full per-user record as the profile store returns it to the
// matching engine. Optional fields are pointers so scoring can tell "no data"
// apart from a real value.
type Profile struct {
	UserID       int64
	DisplayName  string
	Birthdate    *time.Time
	Lat          *float64
	Lon          *float64
	FitnessLevel *int
	Interests    []string
	// Availability maps a weekday name ("monday".."sunday") to the time-slot
	// labels the user is free in ("morning", "18:00", ...).
	Availability map[string][]string
	Privacy      PrivacySettings
	UpdatedAt    time.Time
}

// PrivacySettings controls which profile fields other users may see.
type PrivacySettings struct {
	HideAge          bool
	HideLocation     bool
	HideFitnessLevel bool
	HideAvailability bool
}

// PublicProfile is the redacted view of a profile shown to other users.
// Redaction is applied at the profile store boundary, not by callers.
type PublicProfile struct {
	UserID       int64
	DisplayName  string
	Age          *int
	FitnessLevel *int
	Interests    []string
	Availability map[string][]string
	PhotoURL     *string
}

func (p Profile) HasCoordinates() bool {
	return p.Lat != nil && p.Lon != nil
}

// Age returns full years at now, or nil when the birthdate is unknown.
func (p Profile) Age(now time.Time) *int {
	if p.Birthdate == nil {
		return nil
	}

	years := now.Year() - p.Birthdate.Year()
	anniversary := p.Birthdate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return nil
	}
	return &years
}

// PublicView projects the profile through its privacy settings.
func (p Profile) PublicView(now time.Time) PublicProfile {
	view := PublicProfile{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		Interests:   p.Interests,
	}

	if !p.Privacy.HideAge {
		view.Age = p.Age(now)
	}
	if !p.Privacy.HideFitnessLevel {
		view.FitnessLevel = p.FitnessLevel
	}
	if !p.Privacy.HideAvailability {
		view.Availability = p.Availability
	}

	return view
}
