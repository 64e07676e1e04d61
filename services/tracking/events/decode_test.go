package events

import (
	"encoding/json"
	"testing"

	"github.com/limoride/limotrack/internal/pkg/constants"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_DriverLocation(t *testing.T) {
	data := json.RawMessage(`{
		"driver_id": "driver-1",
		"latitude": -6.175392,
		"longitude": 106.827153,
		"heading": 270,
		"speed": 12.5,
		"booking_id": "booking-9"
	}`)

	ev, err := Decode(constants.EventDriverLocation, data)
	require.NoError(t, err)

	loc, ok := ev.(LocationEvent)
	require.True(t, ok)
	assert.Equal(t, "driver-1", loc.Update.DriverID)
	assert.Equal(t, -6.175392, loc.Update.Latitude)
	assert.Equal(t, 106.827153, loc.Update.Longitude)
	assert.Equal(t, 270.0, loc.Update.Heading)
	assert.Equal(t, "booking-9", loc.Update.BookingID)
}

func TestDecode_DriverLocation_AliasPrecedence(t *testing.T) {
	// driver_id wins over driverId when both are present
	data := json.RawMessage(`{"driver_id": "snake", "driverId": "camel", "lat": 1, "lng": 2}`)

	ev, err := Decode(constants.EventDriverLocation, data)
	require.NoError(t, err)

	loc := ev.(LocationEvent)
	assert.Equal(t, "snake", loc.Update.DriverID)
	assert.Equal(t, 1.0, loc.Update.Latitude)
	assert.Equal(t, 2.0, loc.Update.Longitude)
}

func TestDecode_DriverLocation_MissingFieldsDefault(t *testing.T) {
	ev, err := Decode(constants.EventDriverLocation, json.RawMessage(`{"driverId": "d1"}`))
	require.NoError(t, err)

	loc := ev.(LocationEvent)
	assert.Equal(t, "d1", loc.Update.DriverID)
	assert.Zero(t, loc.Update.Latitude)
	assert.Zero(t, loc.Update.Speed)
	assert.Empty(t, loc.Update.BookingID)
}

func TestDecode_DriverLocation_StringNumerics(t *testing.T) {
	data := json.RawMessage(`{"driver_id":"d1","latitude":"-6.2","longitude":"106.8"}`)

	ev, err := Decode(constants.EventDriverLocation, data)
	require.NoError(t, err)

	loc := ev.(LocationEvent)
	assert.Equal(t, -6.2, loc.Update.Latitude)
	assert.Equal(t, 106.8, loc.Update.Longitude)
}

func TestDecode_ActiveRide_FlattenedCoordinates(t *testing.T) {
	data := json.RawMessage(`{
		"booking_id": "booking-1",
		"driver_id": "driver-1",
		"customer_id": "customer-1",
		"status": "EN_ROUTE_PU",
		"pickup_latitude": -6.17,
		"pickup_longitude": 106.82,
		"dropoff_latitude": -6.19,
		"dropoff_longitude": 106.84,
		"pickup_address": "Jl. Medan Merdeka",
		"otp": "4821"
	}`)

	ev, err := Decode(constants.EventActiveRide, data)
	require.NoError(t, err)

	ride := ev.(RideEvent).Ride
	assert.Equal(t, "booking-1", ride.BookingID)
	assert.Equal(t, models.RideStatusEnRoutePickup, ride.Status)
	assert.Equal(t, -6.17, ride.Pickup.Latitude)
	assert.Equal(t, "Jl. Medan Merdeka", ride.Pickup.Address)
	assert.Equal(t, -6.19, ride.Dropoff.Latitude)
	assert.Equal(t, "4821", ride.OTP)
	assert.True(t, ride.Driver.IsZero())
}

func TestDecode_ActiveRide_NestedCoordinates(t *testing.T) {
	data := json.RawMessage(`{
		"bookingId": "booking-2",
		"status": "on_location",
		"driver_location": {"latitude": -6.18, "longitude": 106.83},
		"pickup_location": {"latitude": -6.17, "longitude": 106.82, "address": "Thamrin"}
	}`)

	ev, err := Decode(constants.EventActiveRide, data)
	require.NoError(t, err)

	ride := ev.(RideEvent).Ride
	assert.Equal(t, "booking-2", ride.BookingID)
	assert.Equal(t, -6.18, ride.Driver.Latitude)
	assert.Equal(t, "Thamrin", ride.Pickup.Address)
}

func TestDecode_ChatMessage(t *testing.T) {
	data := json.RawMessage(`{
		"id": "msg-1",
		"booking_id": "booking-1",
		"sender_id": "driver-1",
		"sender_name": "Budi",
		"message": "On my way",
		"is_from_driver": true
	}`)

	ev, err := Decode(constants.EventChatMessage, data)
	require.NoError(t, err)

	chat := ev.(ChatEvent).Message
	assert.Equal(t, "msg-1", chat.ID)
	assert.Equal(t, "On my way", chat.Message)
	assert.True(t, chat.IsFromDriver)
}

func TestDecode_ChatMessage_SenderTypeFallback(t *testing.T) {
	data := json.RawMessage(`{"message": "hello", "sender_type": "Driver"}`)

	ev, err := Decode(constants.EventChatMessage, data)
	require.NoError(t, err)

	chat := ev.(ChatEvent).Message
	assert.True(t, chat.IsFromDriver)
	assert.NotEmpty(t, chat.ID, "missing id gets a generated one")
}

func TestDecode_Notification_Plain(t *testing.T) {
	data := json.RawMessage(`{
		"id": "n-1",
		"title": "Promo",
		"message": "Weekend discount",
		"type": "general",
		"priority": "low"
	}`)

	ev, err := Decode(constants.EventUserNotifications, data)
	require.NoError(t, err)

	n := ev.(NotificationEvent)
	assert.Equal(t, "n-1", n.Notification.ID)
	assert.Nil(t, n.Chat)
	assert.Nil(t, n.Ride)
}

func TestDecode_Notification_EmbeddedChat(t *testing.T) {
	data := json.RawMessage(`{
		"id": "n-2",
		"title": "New message",
		"type": "chat",
		"data": {
			"booking_id": "booking-1",
			"sender_id": "driver-1",
			"message": "Arrived at the lobby",
			"is_from_driver": true
		}
	}`)

	ev, err := Decode(constants.EventUserNotifications, data)
	require.NoError(t, err)

	n := ev.(NotificationEvent)
	require.NotNil(t, n.Chat)
	assert.Equal(t, "booking-1", n.Chat.BookingID)
	assert.Equal(t, "Arrived at the lobby", n.Chat.Message)
	assert.True(t, n.Notification.IsChat())
}

func TestDecode_Notification_ChatTaggedInData(t *testing.T) {
	// Type comes only from the data object, not the notification envelope
	data := json.RawMessage(`{
		"id": "n-3",
		"data": {"type": "chat", "message": "hi", "booking_id": "b-1"}
	}`)

	ev, err := Decode(constants.EventUserNotifications, data)
	require.NoError(t, err)

	n := ev.(NotificationEvent)
	require.NotNil(t, n.Chat)
	assert.Equal(t, models.NotificationTypeChat, n.Notification.Type)
}

func TestDecode_Notification_LiveRideMetadata(t *testing.T) {
	data := json.RawMessage(`{
		"id": "n-4",
		"type": "live_ride",
		"data": {
			"metadata": {
				"booking_id": "booking-5",
				"status": "en_route_do",
				"driver_latitude": -6.18,
				"driver_longitude": 106.83
			}
		}
	}`)

	ev, err := Decode(constants.EventUserNotifications, data)
	require.NoError(t, err)

	n := ev.(NotificationEvent)
	require.NotNil(t, n.Ride)
	assert.Equal(t, "booking-5", n.Ride.BookingID)
	assert.Equal(t, models.RideStatusEnRouteDropoff, n.Ride.Status)
	assert.Equal(t, -6.18, n.Ride.Driver.Latitude)
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode(constants.EventDriverLocation, json.RawMessage(`{not json`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, constants.EventDriverLocation, decodeErr.Event)
}

func TestDecode_UnknownEvent(t *testing.T) {
	_, err := Decode("mystery.event", json.RawMessage(`{}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestBookingIDFromRaw(t *testing.T) {
	assert.Equal(t, "b-1", BookingIDFromRaw(json.RawMessage(`{"booking_id":"b-1"}`)))
	assert.Empty(t, BookingIDFromRaw(nil))
	assert.Empty(t, BookingIDFromRaw(json.RawMessage(`{broken`)))
}
