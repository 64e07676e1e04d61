// Package aggregator fuses the latest active-ride snapshot with the filtered
// driver-location stream into one throttled, geofence-aware UI state.
package aggregator

import (
	"sync"
	"time"

	"github.com/limoride/limotrack/internal/pkg/logger"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/limoride/limotrack/internal/utils"
	"github.com/limoride/limotrack/services/tracking/hub"
)

const driverCellPrecision = 7

// Aggregator recomputes the live-ride view from the most recently accepted
// value of each input stream. It never blocks a publisher, tolerates the ride
// snapshot and location stream arriving out of order, and derives every field
// idempotently from current inputs.
type Aggregator struct {
	cfg models.TrackingConfig

	mu            sync.Mutex
	ride          *models.ActiveRide
	ended         bool
	driverLoc     models.Location
	lastAccepted  *utils.GeoPoint
	lastPublished time.Time
	pendingDirty  bool
	pendingTimer  *time.Timer
	followMap     bool
	state         models.LiveRideState

	out *hub.State[models.LiveRideState]
	now func() time.Time
}

// New creates an aggregator with no current ride.
func New(cfg models.TrackingConfig) *Aggregator {
	return &Aggregator{
		cfg:       cfg,
		followMap: true,
		out:       hub.NewState[models.LiveRideState](),
		now:       time.Now,
	}
}

// Subscribe observes the derived live-ride state with replay-latest semantics.
func (a *Aggregator) Subscribe() (<-chan models.LiveRideState, func()) {
	return a.out.Subscribe()
}

// State returns the current derived state.
func (a *Aggregator) State() models.LiveRideState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SetMapFollow controls whether ride updates recompute the viewport bounds.
// The UI clears it while the user pans or zooms manually.
func (a *Aggregator) SetMapFollow(follow bool) {
	a.mu.Lock()
	a.followMap = follow
	a.mu.Unlock()
}

// ApplyRide replaces the ride snapshot wholesale. Ride events bypass the
// location throttle; ended is terminal until a new booking id arrives.
func (a *Aggregator) ApplyRide(ride models.ActiveRide) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ride != nil && a.ended && ride.BookingID == a.ride.BookingID {
		return
	}

	if a.ride == nil || ride.BookingID != a.ride.BookingID {
		// New booking: previous location state no longer applies.
		a.driverLoc = models.Location{}
		a.lastAccepted = nil
		a.pendingDirty = false
		a.stopPendingTimerLocked()
		a.lastPublished = time.Time{}
		a.ended = false
	}

	snapshot := ride
	a.ride = &snapshot
	a.ended = ride.Status.Terminal()

	if !ride.Driver.IsZero() {
		a.driverLoc = ride.Driver
		point := utils.GeoPointFromLocation(ride.Driver)
		a.lastAccepted = &point
	}

	a.recomputeLocked()
	a.publishLocked()
}

// ApplyLocation applies one driver position report through the booking-id
// filter, the 10 m distance gate, and the time-gated throttle. The last
// update inside a throttle window is the one surfaced.
func (a *Aggregator) ApplyLocation(update models.DriverLocationUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ride == nil {
		return
	}
	if update.BookingID != "" && update.BookingID != a.ride.BookingID {
		logger.Debug("Ignoring location update for stale booking",
			logger.String("booking_id", update.BookingID),
			logger.String("current_booking_id", a.ride.BookingID))
		return
	}

	point := utils.GeoPoint{Latitude: update.Latitude, Longitude: update.Longitude}
	if update.Location().IsZero() {
		return
	}

	if a.lastAccepted != nil {
		if utils.DistanceMeters(*a.lastAccepted, point) <= a.cfg.MinDistanceMeters {
			return
		}
	}

	a.lastAccepted = &point
	a.driverLoc = update.Location()
	a.recomputeLocked()

	now := a.now()
	window := a.cfg.ThrottleWindow
	if window <= 0 || now.Sub(a.lastPublished) >= window {
		a.lastPublished = now
		a.pendingDirty = false
		a.stopPendingTimerLocked()
		a.publishLocked()
		return
	}

	// Inside the window: remember that state moved and surface it when the
	// window elapses, so the last update wins rather than the first.
	a.pendingDirty = true
	if a.pendingTimer == nil {
		remaining := window - now.Sub(a.lastPublished)
		a.pendingTimer = time.AfterFunc(remaining, a.flushPending)
	}
}

func (a *Aggregator) flushPending() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pendingTimer = nil
	if !a.pendingDirty {
		return
	}
	a.pendingDirty = false
	a.lastPublished = a.now()
	a.recomputeLocked()
	a.publishLocked()
}

func (a *Aggregator) stopPendingTimerLocked() {
	if a.pendingTimer != nil {
		a.pendingTimer.Stop()
		a.pendingTimer = nil
	}
}

// Close cancels any pending throttle timer.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.pendingDirty = false
	a.stopPendingTimerLocked()
	a.mu.Unlock()
}

// recomputeLocked rebuilds the derived state from current inputs. Pure
// function of the ride snapshot, driver location, and config thresholds.
func (a *Aggregator) recomputeLocked() {
	state := models.LiveRideState{
		UpdatedAt: a.now(),
	}

	if a.ride != nil {
		ride := *a.ride
		state.Ride = &ride
		state.PickupLocation = ride.Pickup
		state.DropoffLocation = ride.Dropoff
		state.StatusMessage = StatusMessage(ride.Status)
		state.OTP = ride.OTP
	}

	state.DriverLocation = a.driverLoc

	if !a.driverLoc.IsZero() {
		driver := utils.GeoPointFromLocation(a.driverLoc)
		state.DriverCell = utils.EncodeLocation(a.driverLoc, driverCellPrecision)

		if !state.PickupLocation.IsZero() {
			distToPickup := utils.DistanceMeters(driver, utils.GeoPointFromLocation(state.PickupLocation))
			state.PickupArrivalDetected = distToPickup <= a.cfg.PickupRadiusMeters
		}
		if !state.DropoffLocation.IsZero() {
			distToDropoff := utils.DistanceMeters(driver, utils.GeoPointFromLocation(state.DropoffLocation))
			state.DropoffArrivalDetected = distToDropoff <= a.cfg.DropoffRadiusMeters
			state.DistanceMeters = distToDropoff
			if a.cfg.AverageSpeedKmh > 0 {
				metersPerMinute := a.cfg.AverageSpeedKmh * 1000 / 60
				state.EstimatedMinutes = distToDropoff / metersPerMinute
			}
		}
	}

	if a.followMap {
		state.Bounds = viewportBounds(a.driverLoc, state.PickupLocation, state.DropoffLocation)
	} else {
		state.Bounds = a.state.Bounds
	}

	a.state = state
}

func (a *Aggregator) publishLocked() {
	a.out.Publish(a.state)
}

// StatusMessage maps a ride status code to its human-readable copy.
func StatusMessage(status models.RideStatus) string {
	switch {
	case status == models.RideStatusEnRoutePickup:
		return "Your driver is on the way to pick you up"
	case status == models.RideStatusOnLocation:
		return "Your driver has arrived at the pickup location"
	case status.InProgress():
		return "Heading to your destination"
	case status == models.RideStatusEnded:
		return "Your ride is complete"
	default:
		return "Tracking your ride"
	}
}

// viewportBounds computes the rectangle covering every present coordinate, or
// nil when nothing is present. A 0.0/0.0 coordinate counts as absent.
func viewportBounds(points ...models.Location) *models.MapBounds {
	var bounds *models.MapBounds
	for _, p := range points {
		if p.IsZero() {
			continue
		}
		if bounds == nil {
			bounds = &models.MapBounds{MinLat: p.Latitude, MaxLat: p.Latitude, MinLng: p.Longitude, MaxLng: p.Longitude}
			continue
		}
		if p.Latitude < bounds.MinLat {
			bounds.MinLat = p.Latitude
		}
		if p.Latitude > bounds.MaxLat {
			bounds.MaxLat = p.Latitude
		}
		if p.Longitude < bounds.MinLng {
			bounds.MinLng = p.Longitude
		}
		if p.Longitude > bounds.MaxLng {
			bounds.MaxLng = p.Longitude
		}
	}
	return bounds
}
