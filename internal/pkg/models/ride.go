package models

import "time"

// RideStatus represents the status of an active ride as reported by the server
type RideStatus string

const (
	RideStatusEnRoutePickup  RideStatus = "en_route_pu"
	RideStatusOnLocation     RideStatus = "on_location"
	RideStatusEnRouteDropoff RideStatus = "en_route_do"
	RideStatusStarted        RideStatus = "started"
	RideStatusInProgress     RideStatus = "ride_in_progress"
	RideStatusEnded          RideStatus = "ended"
)

// InProgress reports whether the status means the customer is being driven to
// the dropoff. The server historically emitted three spellings for this phase.
func (s RideStatus) InProgress() bool {
	return s == RideStatusEnRouteDropoff || s == RideStatusStarted || s == RideStatusInProgress
}

// Terminal reports whether the status ends the ride lifecycle.
func (s RideStatus) Terminal() bool {
	return s == RideStatusEnded
}

// ActiveRide represents the ride currently being tracked. Every ride-bearing
// event replaces the previous snapshot wholesale; merging happens only in the
// aggregator's derived state.
type ActiveRide struct {
	BookingID    string     `json:"booking_id"`
	DriverID     string     `json:"driver_id"`
	CustomerID   string     `json:"customer_id"`
	Status       RideStatus `json:"status"`
	Driver       Location   `json:"driver_location"`
	Pickup       Location   `json:"pickup_location"`
	Dropoff      Location   `json:"dropoff_location"`
	DriverName   string     `json:"driver_name,omitempty"`
	DriverPhone  string     `json:"driver_phone,omitempty"`
	VehiclePlate string     `json:"vehicle_plate,omitempty"`
	VehicleModel string     `json:"vehicle_model,omitempty"`
	OTP          string     `json:"otp,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// MapBounds is the rectangle a map viewport should cover to show the ride.
type MapBounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// LiveRideState is the derived, UI-facing view of the tracked ride. It is fully
// recomputed from the latest ride snapshot and the latest accepted driver
// position on every relevant change and holds no independent identity.
type LiveRideState struct {
	Ride                   *ActiveRide `json:"ride,omitempty"`
	DriverLocation         Location    `json:"driver_location"`
	PickupLocation         Location    `json:"pickup_location"`
	DropoffLocation        Location    `json:"dropoff_location"`
	StatusMessage          string      `json:"status_message"`
	EstimatedMinutes       float64     `json:"estimated_minutes"`
	DistanceMeters         float64     `json:"distance_meters"`
	OTP                    string      `json:"otp,omitempty"`
	PickupArrivalDetected  bool        `json:"pickup_arrival_detected"`
	DropoffArrivalDetected bool        `json:"dropoff_arrival_detected"`
	Bounds                 *MapBounds  `json:"bounds,omitempty"`
	DriverCell             string      `json:"driver_cell,omitempty"`
	UpdatedAt              time.Time   `json:"updated_at"`
}
