// Package entity defines the request and response bodies of the leadmap JSON API.
package entity

import (
	"time"

	"github.com/leadmap/leadmap/util/json_util"
)

// DateLayout is the calendar-date format used by lead data and reservations.
const DateLayout = "2006-01-02"

// CredentialsForm is the body of register and login requests.
type CredentialsForm struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserInfo identifies the signed-in user.
type UserInfo struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
}

// UserView is a row of the user listing.
type UserView struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationForm is the body of a location create request.
type LocationForm struct {
	Name    *string               `json:"name" binding:"required"`
	Lat     *float64              `json:"lat" binding:"required"`
	Lng     *float64              `json:"lng" binding:"required"`
	Type    string                `json:"type"`
	Geojson json_util.RawMessage `json:"geojson"`
}

// LocationView is a location as returned by the listing.
type LocationView struct {
	Id       int     `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type"`
	Geojson  any     `json:"geojson"`
	UserId   *int    `json:"user_id"`
	Username *string `json:"username"`
}

// LeadDataForm is the body of a lead data upsert request.
type LeadDataForm struct {
	LocationId      *int   `json:"location_id" binding:"required"`
	Date            string `json:"date" binding:"required"`
	LeadsCount      *int   `json:"leads_count" binding:"required,min=0"`
	RejectionsCount *int   `json:"rejections_count" binding:"required,min=0"`
	NoProspects     *int   `json:"no_prospects" binding:"omitempty,min=0"`
}

// LeadDataView is a lead data row with its owner's username.
type LeadDataView struct {
	Id              int     `json:"id"`
	LocationId      int     `json:"location_id"`
	Date            string  `json:"date"`
	LeadsCount      int     `json:"leads_count"`
	RejectionsCount int     `json:"rejections_count"`
	NoProspects     int     `json:"no_prospects"`
	UserId          *int    `json:"user_id"`
	Username        *string `json:"username"`
}

// ReservationForm is the body of a reservation create request.
type ReservationForm struct {
	AreaName        string   `json:"area_name" binding:"required"`
	AreaLat         *float64 `json:"area_lat" binding:"required"`
	AreaLng         *float64 `json:"area_lng" binding:"required"`
	ReservationDate string   `json:"reservation_date" binding:"required"`
}

// ReservationView is a reservation with its owner's username.
type ReservationView struct {
	Id              int       `json:"id"`
	AreaName        string    `json:"area_name"`
	AreaLat         float64   `json:"area_lat"`
	AreaLng         float64   `json:"area_lng"`
	UserId          int       `json:"user_id"`
	ReservationDate string    `json:"reservation_date"`
	CreatedAt       time.Time `json:"created_at"`
	Username        *string   `json:"username"`
}

// ValidDate reports whether s is a calendar date in DateLayout.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
