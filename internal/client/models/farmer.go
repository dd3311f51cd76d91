package models

import (
	"slices"
	"strings"
	"time"
)

// Farmer is a normalized farmer profile. Farmers are read and deleted only.
type Farmer struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId,omitempty"`
	FarmerName      string    `json:"farmer_name"`
	FarmName        string    `json:"farm_name"`
	Village         string    `json:"village"`
	District        string    `json:"district"`
	State           string    `json:"state"`
	Mobile          string    `json:"mobile"`
	WhatsApp        string    `json:"whatsapp"`
	ExperienceYears int       `json:"experience_years"`
	FarmSize        string    `json:"farm_size"`
	IsCompleted     bool      `json:"is_completed"`
	AgreedToTerms   bool      `json:"agreed_to_terms"`
	CreatedAt       time.Time `json:"created_at"`
	ProfilePhoto    string    `json:"profile_photo,omitempty"`
}

type RawFarmer struct {
	ID              FlexString `json:"id"`
	UserID          FlexString `json:"userId"`
	FarmerName      string     `json:"farmer_name"`
	FarmName        string     `json:"farm_name"`
	Village         string     `json:"village"`
	District        string     `json:"district"`
	State           string     `json:"state"`
	Mobile          FlexString `json:"mobile"`
	WhatsApp        FlexString `json:"whatsapp"`
	ExperienceYears FlexString `json:"experience_years"`
	FarmSize        FlexString `json:"farm_size"`
	IsCompleted     bool       `json:"is_completed"`
	AgreedToTerms   bool       `json:"agreed_to_terms"`
	CreatedAt       string     `json:"created_at"`
	ProfilePhoto    string     `json:"profile_photo"`
}

// NormalizeFarmer maps the wire shape into a Farmer. An unparseable creation
// time is left zero.
func NormalizeFarmer(r RawFarmer) Farmer {
	f := Farmer{
		ID:              r.ID.String(),
		UserID:          r.UserID.String(),
		FarmerName:      r.FarmerName,
		FarmName:        r.FarmName,
		Village:         r.Village,
		District:        r.District,
		State:           r.State,
		Mobile:          r.Mobile.String(),
		WhatsApp:        r.WhatsApp.String(),
		ExperienceYears: r.ExperienceYears.Int(),
		FarmSize:        r.FarmSize.String(),
		IsCompleted:     r.IsCompleted,
		AgreedToTerms:   r.AgreedToTerms,
		ProfilePhoto:    r.ProfilePhoto,
	}
	if ts, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
		f.CreatedAt = ts
	}
	return f
}

func NormalizeFarmers(raw []RawFarmer) []Farmer {
	out := make([]Farmer, 0, len(raw))
	for _, r := range raw {
		out = append(out, NormalizeFarmer(r))
	}
	return out
}

// SearchFarmers matches term case-insensitively against names and location
// fields, and as a plain substring against phone numbers.
func SearchFarmers(fs []Farmer, term string) []Farmer {
	if strings.TrimSpace(term) == "" {
		return slices.Clone(fs)
	}
	lower := strings.ToLower(term)
	out := make([]Farmer, 0, len(fs))
	for _, f := range fs {
		textual := []string{f.FarmerName, f.FarmName, f.Village, f.District, f.State}
		if slices.ContainsFunc(textual, func(s string) bool { return strings.Contains(strings.ToLower(s), lower) }) ||
			strings.Contains(f.Mobile, term) || strings.Contains(f.WhatsApp, term) {
			out = append(out, f)
		}
	}
	return out
}
