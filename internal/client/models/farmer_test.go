package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFarmer(t *testing.T) {
	var r RawFarmer
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 12, "userId": "u-12", "farmer_name": "Ravi", "farm_name": "Green Acres",
		"village": "Kothur", "district": "Ranga Reddy", "state": "Telangana",
		"mobile": 9876543210, "whatsapp": "9876543210", "experience_years": "7",
		"farm_size": 2.5, "is_completed": true, "agreed_to_terms": true,
		"created_at": "2025-03-01T10:00:00Z", "profile_photo": "https://cdn/p.jpg"
	}`), &r))

	f := NormalizeFarmer(r)

	assert.Equal(t, "12", f.ID)
	assert.Equal(t, "9876543210", f.Mobile)
	assert.Equal(t, 7, f.ExperienceYears)
	assert.Equal(t, "2.5", f.FarmSize)
	assert.True(t, f.IsCompleted)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), f.CreatedAt)
}

func TestNormalizeFarmer_BadTimestampLeftZero(t *testing.T) {
	f := NormalizeFarmer(RawFarmer{ID: "1", CreatedAt: "yesterday"})
	assert.True(t, f.CreatedAt.IsZero())
}

func TestSearchFarmers(t *testing.T) {
	fs := []Farmer{
		{ID: "1", FarmerName: "Ravi Kumar", Village: "Kothur", Mobile: "9876543210"},
		{ID: "2", FarmerName: "Anita", FarmName: "Sunrise Farm", State: "Punjab", WhatsApp: "9123456789"},
	}

	ids := func(in []Farmer) []string {
		out := []string{}
		for _, f := range in {
			out = append(out, f.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2"}, ids(SearchFarmers(fs, "")))
	assert.Equal(t, []string{"1"}, ids(SearchFarmers(fs, "kothur")))
	assert.Equal(t, []string{"2"}, ids(SearchFarmers(fs, "SUNRISE")))
	assert.Equal(t, []string{"2"}, ids(SearchFarmers(fs, "912345")))
	assert.Equal(t, []string{"1"}, ids(SearchFarmers(fs, "98765")))
	assert.Empty(t, SearchFarmers(fs, "kerala"))
}

func TestFlexString(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 42, "b": "x", "c": null}`), &v))
	assert.Equal(t, FlexString("42"), v.A)
	assert.Equal(t, FlexString("x"), v.B)
	assert.Equal(t, FlexString(""), v.C)

	assert.Equal(t, 3, FlexString("3.9").Int())
	assert.Equal(t, 0, FlexString("n/a").Int())

	require.Error(t, json.Unmarshal([]byte(`{"a": [1]}`), &v))
}
