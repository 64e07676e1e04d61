package tracking

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/limoride/limotrack/internal/pkg/constants"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/limoride/limotrack/internal/pkg/token"
	"github.com/limoride/limotrack/services/tracking/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientConfig() models.TrackingConfig {
	return models.TrackingConfig{
		URL:                   "ws://127.0.0.1:1",
		UserType:              "customer",
		ConnectTimeout:        time.Second,
		ReconnectInitialDelay: 10 * time.Millisecond,
		ReconnectMaxDelay:     20 * time.Millisecond,
		ReconnectMultiplier:   1.5,
		ReconnectMaxAttempts:  1,
		ThrottleWindow:        0,
		MinDistanceMeters:     10,
		PickupRadiusMeters:    100,
		DropoffRadiusMeters:   50,
		AverageSpeedKmh:       30,
	}
}

func newTestClient(t *testing.T, vis *mocks.MockVisibilitySource, sys *mocks.MockSystemNotifier) *Client {
	t.Helper()
	c := New(testClientConfig(), token.StaticStore{Bearer: "token"}, vis, sys)
	t.Cleanup(c.Shutdown)
	return c
}

func frame(t *testing.T, event string, payload any) models.WSMessage {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return models.WSMessage{Event: event, Data: data}
}

func TestDispatch_RideSnapshotFlowsToHubAndState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(frame(t, constants.EventActiveRide, map[string]any{
		"booking_id":       "booking-1",
		"driver_id":        "driver-1",
		"status":           "en_route_pu",
		"pickup_location":  map[string]float64{"latitude": -6.2, "longitude": 106.8},
		"dropoff_location": map[string]float64{"latitude": -6.25, "longitude": 106.85},
	}))

	ride, ok := c.Hub().Ride()
	require.True(t, ok)
	assert.Equal(t, "booking-1", ride.BookingID)

	state := c.RideState()
	require.NotNil(t, state.Ride)
	assert.Equal(t, models.RideStatusEnRoutePickup, state.Ride.Status)
	assert.Equal(t, "Your driver is on the way to pick you up", state.StatusMessage)

	// Room membership follows the active booking
	assert.Equal(t, "booking-1", c.joinedRoom)
}

func TestDispatch_LocationUpdatesHubAndAggregator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(frame(t, constants.EventActiveRide, map[string]any{
		"booking_id":      "booking-1",
		"driver_id":       "driver-1",
		"status":          "en_route_pu",
		"pickup_location": map[string]float64{"latitude": -6.2, "longitude": 106.8},
	}))
	c.dispatch(frame(t, constants.EventDriverLocation, map[string]any{
		"driver_id":  "driver-1",
		"booking_id": "booking-1",
		"latitude":   -6.21,
		"longitude":  106.81,
	}))

	update, ok := c.Hub().DriverLocation("driver-1")
	require.True(t, ok)
	assert.InDelta(t, -6.21, update.Latitude, 1e-9)

	state := c.RideState()
	assert.InDelta(t, -6.21, state.DriverLocation.Latitude, 1e-9)
	assert.InDelta(t, 106.81, state.DriverLocation.Longitude, 1e-9)
}

func TestDispatch_TerminalRideLeavesRoom(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(frame(t, constants.EventActiveRide, map[string]any{
		"booking_id": "booking-1",
		"driver_id":  "driver-1",
		"status":     "started",
	}))
	require.Equal(t, "booking-1", c.joinedRoom)

	c.dispatch(frame(t, constants.EventActiveRide, map[string]any{
		"booking_id": "booking-1",
		"status":     "ended",
	}))
	assert.Empty(t, c.joinedRoom)
	assert.Equal(t, "Your ride is complete", c.RideState().StatusMessage)
}

func TestDispatch_ChatFrameAppendsToHub(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(frame(t, constants.EventChatMessage, map[string]any{
		"booking_id": "booking-1",
		"sender_id":  "driver-1",
		"message":    "On my way",
	}))

	msgs := c.Hub().ChatMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "On my way", msgs[0].Message)
}

func TestDispatch_ChatNotificationProjectsMessageOnceAndRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	vis := mocks.NewMockVisibilitySource(ctrl)
	sys := mocks.NewMockSystemNotifier(ctrl)
	// Chat always reaches the system surface regardless of visibility
	vis.EXPECT().IsForeground().Return(true).AnyTimes()
	sys.EXPECT().Post(gomock.Any()).Return(nil).Times(1)

	c := newTestClient(t, vis, sys)
	c.dispatch(frame(t, constants.EventUserNotifications, map[string]any{
		"id":      "n-1",
		"type":    "chat",
		"title":   "New message",
		"message": "I am outside",
		"data": map[string]any{
			"booking_id": "booking-1",
			"sender_id":  "driver-1",
			"message":    "I am outside",
		},
	}))

	assert.Len(t, c.Hub().Notifications(), 1)
	msgs := c.Hub().ChatMessages()
	require.Len(t, msgs, 1, "embedded chat is projected exactly once")
	assert.Equal(t, "I am outside", msgs[0].Message)
}

func TestDispatch_GeneralNotificationForegroundStaysInApp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	vis := mocks.NewMockVisibilitySource(ctrl)
	sys := mocks.NewMockSystemNotifier(ctrl)
	vis.EXPECT().IsForeground().Return(true)
	// No Post expectation

	c := newTestClient(t, vis, sys)
	c.dispatch(frame(t, constants.EventUserNotifications, map[string]any{
		"id":      "n-2",
		"type":    "general",
		"title":   "Promo",
		"message": "Weekend discount",
	}))

	assert.Len(t, c.Hub().Notifications(), 1)
	assert.Empty(t, c.Hub().ChatMessages())
}

func TestDispatch_LiveRideNotificationUpdatesState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	vis := mocks.NewMockVisibilitySource(ctrl)
	sys := mocks.NewMockSystemNotifier(ctrl)
	vis.EXPECT().IsForeground().Return(false)
	sys.EXPECT().Post(gomock.Any()).Return(nil)

	c := newTestClient(t, vis, sys)
	c.dispatch(frame(t, constants.EventUserNotifications, map[string]any{
		"id":      "n-3",
		"type":    "live_ride",
		"title":   "Driver update",
		"message": "Your driver is arriving",
		"data": map[string]any{
			"booking_id": "booking-5",
			"driver_id":  "driver-9",
			"status":     "on_location",
		},
	}))

	state := c.RideState()
	require.NotNil(t, state.Ride)
	assert.Equal(t, "booking-5", state.Ride.BookingID)
	assert.Equal(t, models.RideStatusOnLocation, state.Ride.Status)
}

func TestDispatch_HeartbeatsAreCounted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(models.WSMessage{Event: constants.EventHeartbeat})
	c.dispatch(models.WSMessage{Event: constants.EventHeartbeat})
	assert.EqualValues(t, 2, c.Heartbeats())
}

func TestDispatch_UndecodableFrameIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.dispatch(models.WSMessage{Event: "mystery.event", Data: json.RawMessage(`{}`)})
	c.dispatch(models.WSMessage{Event: constants.EventDriverLocation, Data: json.RawMessage(`not json`)})

	assert.Empty(t, c.Hub().Notifications())
	_, ok := c.Hub().Ride()
	assert.False(t, ok)
}

func TestJoinBooking_SwitchingRoomsLeavesPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	c := newTestClient(t, mocks.NewMockVisibilitySource(ctrl), mocks.NewMockSystemNotifier(ctrl))

	c.JoinBooking("booking-1")
	assert.Equal(t, "booking-1", c.joinedRoom)

	// Re-joining the same room is a no-op
	c.JoinBooking("booking-1")
	assert.Equal(t, "booking-1", c.joinedRoom)

	c.JoinBooking("booking-2")
	assert.Equal(t, "booking-2", c.joinedRoom)

	c.LeaveBooking("booking-1")
	assert.Equal(t, "booking-2", c.joinedRoom, "leaving a stale booking does not clear the current room")

	c.LeaveBooking("booking-2")
	assert.Empty(t, c.joinedRoom)
}
