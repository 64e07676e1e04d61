package models

import "time"

// Location represents a geographical location with latitude and longitude
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Address   string    `json:"address,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsZero reports whether the location carries no coordinate. A 0.0/0.0 pair is
// treated as "absent" for wire compatibility, even though it is technically a
// valid point in the Gulf of Guinea.
func (l Location) IsZero() bool {
	return l.Latitude == 0 && l.Longitude == 0
}

// DriverLocationUpdate represents a single driver position report. Each update
// supersedes the previous one for the same driver.
type DriverLocationUpdate struct {
	DriverID  string    `json:"driver_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Heading   float64   `json:"heading"`
	Speed     float64   `json:"speed"`
	BookingID string    `json:"booking_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Location returns the update's coordinate as a Location value.
func (u DriverLocationUpdate) Location() Location {
	return Location{
		Latitude:  u.Latitude,
		Longitude: u.Longitude,
		Timestamp: u.Timestamp,
	}
}
