package models

import "strings"

// Place is a reverse-geocoded location.
type Place struct {
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Label joins the non-empty parts of the place, e.g. "Lahore, Punjab, Pakistan".
func (p Place) Label() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.City, p.Region, p.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "Current location"
	}

	return strings.Join(parts, ", ")
}
