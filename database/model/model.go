// Package model defines the persisted leadmap records.
package model

import "time"

const DefaultLocationType = "city"

// Location is a named point on the map, optionally carrying a GeoJSON
// geometry stored as serialized text.
type Location struct {
	Id      int     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string  `json:"name" gorm:"not null"`
	Lat     float64 `json:"lat" gorm:"not null"`
	Lng     float64 `json:"lng" gorm:"not null"`
	Type    string  `json:"type" gorm:"size:64;default:city"`
	Geojson *string `json:"-" gorm:"column:geojson;type:text"`
	UserId  *int    `json:"user_id" gorm:"index"`
}

// LeadData holds the counters recorded for one location on one date.
type LeadData struct {
	Id              int    `json:"id" gorm:"primaryKey;autoIncrement"`
	LocationId      int    `json:"location_id" gorm:"not null;uniqueIndex:idx_lead_data_location_date,priority:1"`
	Date            string `json:"date" gorm:"size:32;not null;uniqueIndex:idx_lead_data_location_date,priority:2;index:idx_lead_data_date"`
	LeadsCount      int    `json:"leads_count" gorm:"default:0"`
	RejectionsCount int    `json:"rejections_count" gorm:"default:0"`
	NoProspects     int    `json:"no_prospects" gorm:"default:0"`
	UserId          *int   `json:"user_id" gorm:"index"`
}

func (LeadData) TableName() string {
	return "lead_data"
}

// Reservation is an exclusive claim on an area for one date.
type Reservation struct {
	Id              int       `json:"id" gorm:"primaryKey;autoIncrement"`
	AreaName        string    `json:"area_name" gorm:"size:191;not null;uniqueIndex:idx_reservation_area_date,priority:1"`
	AreaLat         float64   `json:"area_lat" gorm:"not null"`
	AreaLng         float64   `json:"area_lng" gorm:"not null"`
	UserId          int       `json:"user_id" gorm:"not null;index"`
	ReservationDate string    `json:"reservation_date" gorm:"size:32;not null;uniqueIndex:idx_reservation_area_date,priority:2;index:idx_reservation_date"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Migration records a schema step that has been applied.
type Migration struct {
	Id        string    `gorm:"primaryKey;size:128"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (Migration) TableName() string {
	return "schema_migrations"
}
