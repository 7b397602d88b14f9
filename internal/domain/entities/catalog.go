package entities

import (
	"regexp"
	"strings"
)

// Designation is a doctor's title, e.g. "Senior Consultant"
type Designation struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Specialisation is a medical field, e.g. "Cardiology"
type Specialisation struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// AvailableTime is a reusable free-text time label, not a calendar reservation
type AvailableTime struct {
	ID   int64  `json:"id" db:"id"`
	Time string `json:"time" db:"label"`
}

// HospitalService is a service offered by the hospital
type HospitalService struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Image       string `json:"image" db:"image"`
}

const (
	MaxCatalogNameLength = 50
	MaxSlugLength        = 60
	MaxTimeLabelLength   = 50
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLength {
		slug = strings.TrimRight(slug[:MaxSlugLength], "-")
	}
	return slug
}
