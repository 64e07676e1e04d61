package events

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/limoride/limotrack/internal/pkg/constants"
	"github.com/limoride/limotrack/internal/pkg/models"
)

// Decode normalizes one raw frame into a DomainEvent. Unknown event names and
// malformed payloads yield a *DecodeError, never a panic.
func Decode(event string, data json.RawMessage) (DomainEvent, error) {
	switch event {
	case constants.EventConnected:
		return Connected{At: time.Now()}, nil
	case constants.EventHeartbeat:
		return Heartbeat{At: time.Now()}, nil
	case constants.EventDriverLocation:
		return decodeLocation(data)
	case constants.EventActiveRide:
		return decodeRide(data)
	case constants.EventChatMessage:
		return decodeChat(data)
	case constants.EventUserNotifications:
		return decodeNotification(data)
	default:
		return nil, &DecodeError{Event: event, Reason: "unrecognized event name"}
	}
}

func decodeLocation(data json.RawMessage) (DomainEvent, error) {
	raw, err := rawMap(data)
	if err != nil {
		return nil, &DecodeError{Event: constants.EventDriverLocation, Reason: "invalid payload", Err: err}
	}

	update := models.DriverLocationUpdate{
		DriverID:  stringField(raw, "driver_id", "driverId", "driver"),
		Latitude:  floatField(raw, "latitude", "lat"),
		Longitude: floatField(raw, "longitude", "lng", "lon", "long"),
		Heading:   floatField(raw, "heading", "bearing"),
		Speed:     floatField(raw, "speed"),
		BookingID: stringField(raw, "booking_id", "bookingId", "ride_id", "rideId"),
		Timestamp: timeField(raw, "timestamp", "created_at"),
	}

	return LocationEvent{Update: update}, nil
}

func decodeRide(data json.RawMessage) (DomainEvent, error) {
	raw, err := rawMap(data)
	if err != nil {
		return nil, &DecodeError{Event: constants.EventActiveRide, Reason: "invalid payload", Err: err}
	}

	return RideEvent{Ride: rideFromMap(raw)}, nil
}

// rideFromMap builds an ActiveRide from a loosely keyed object. It is shared
// by the active_ride snapshot and the live_ride notification metadata path.
func rideFromMap(raw map[string]any) models.ActiveRide {
	ride := models.ActiveRide{
		BookingID:    stringField(raw, "booking_id", "bookingId", "id"),
		DriverID:     stringField(raw, "driver_id", "driverId"),
		CustomerID:   stringField(raw, "customer_id", "customerId", "user_id", "userId"),
		Status:       models.RideStatus(strings.ToLower(stringField(raw, "status", "ride_status"))),
		DriverName:   stringField(raw, "driver_name", "driverName"),
		DriverPhone:  stringField(raw, "driver_phone", "driver_contact", "driverPhone"),
		VehiclePlate: stringField(raw, "vehicle_plate", "vehicle_number", "vehiclePlate"),
		VehicleModel: stringField(raw, "vehicle_model", "vehicleModel"),
		OTP:          stringField(raw, "otp", "ride_otp"),
		Timestamp:    timeField(raw, "timestamp", "updated_at", "created_at"),
	}

	ride.Driver = coordinate(raw, "driver_location", "driverLocation",
		[]string{"driver_latitude", "driver_lat"}, []string{"driver_longitude", "driver_lng"})
	ride.Pickup = coordinate(raw, "pickup_location", "pickupLocation",
		[]string{"pickup_latitude", "pickup_lat"}, []string{"pickup_longitude", "pickup_lng"})
	ride.Dropoff = coordinate(raw, "dropoff_location", "dropoffLocation",
		[]string{"dropoff_latitude", "dropoff_lat", "drop_latitude"}, []string{"dropoff_longitude", "dropoff_lng", "drop_longitude"})

	ride.Pickup.Address = stringField(raw, "pickup_address", "pickupAddress")
	ride.Dropoff.Address = stringField(raw, "dropoff_address", "dropoffAddress")

	return ride
}

// coordinate reads a location either from a nested object or from flattened
// latitude/longitude keys, nested object first.
func coordinate(raw map[string]any, nestedKey, nestedAlt string, latKeys, lngKeys []string) models.Location {
	if nested := mapField(raw, nestedKey, nestedAlt); nested != nil {
		return models.Location{
			Latitude:  floatField(nested, "latitude", "lat"),
			Longitude: floatField(nested, "longitude", "lng", "lon"),
			Address:   stringField(nested, "address"),
		}
	}
	return models.Location{
		Latitude:  floatField(raw, latKeys...),
		Longitude: floatField(raw, lngKeys...),
	}
}

func decodeChat(data json.RawMessage) (DomainEvent, error) {
	raw, err := rawMap(data)
	if err != nil {
		return nil, &DecodeError{Event: constants.EventChatMessage, Reason: "invalid payload", Err: err}
	}

	return ChatEvent{Message: chatFromMap(raw)}, nil
}

func chatFromMap(raw map[string]any) models.ChatMessage {
	msg := models.ChatMessage{
		ID:         stringField(raw, "id", "message_id", "messageId"),
		BookingID:  stringField(raw, "booking_id", "bookingId"),
		SenderID:   stringField(raw, "sender_id", "senderId"),
		SenderName: stringField(raw, "sender_name", "senderName"),
		Message:    stringField(raw, "message", "text", "body"),
		Timestamp:  timeField(raw, "timestamp", "created_at"),
	}
	msg.IsFromDriver = boolField(raw, "is_from_driver", "from_driver") ||
		strings.EqualFold(stringField(raw, "sender_type", "senderType"), "driver")

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	return msg
}

func decodeNotification(data json.RawMessage) (DomainEvent, error) {
	raw, err := rawMap(data)
	if err != nil {
		return nil, &DecodeError{Event: constants.EventUserNotifications, Reason: "invalid payload", Err: err}
	}

	notification := models.UserNotification{
		ID:        stringField(raw, "id", "notification_id", "notificationId"),
		Title:     stringField(raw, "title"),
		Message:   stringField(raw, "message", "body"),
		Type:      strings.ToLower(stringField(raw, "type", "notification_type", "notificationType")),
		Priority:  stringField(raw, "priority"),
		Timestamp: timeField(raw, "timestamp", "created_at"),
		Replayed:  boolField(raw, "replayed", "is_replay"),
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}

	event := NotificationEvent{Notification: notification}

	payload := mapField(raw, "data", "payload")
	if payload != nil {
		if rawData, err := json.Marshal(payload); err == nil {
			event.Notification.RawData = rawData
		}

		// A chat payload rides inside the notification either via the
		// notification type or a tag inside the data object.
		if notification.Type == models.NotificationTypeChat ||
			strings.EqualFold(stringField(payload, "type"), models.NotificationTypeChat) {
			event.Notification.Type = models.NotificationTypeChat
			chat := chatFromMap(payload)
			event.Chat = &chat
		}

		// live_ride notifications nest the ride snapshot under metadata.
		if notification.Type == models.NotificationTypeLiveRide {
			rideMap := mapField(payload, "metadata")
			if rideMap == nil {
				rideMap = payload
			}
			ride := rideFromMap(rideMap)
			if ride.BookingID != "" {
				event.Ride = &ride
			}
		}
	}

	return event, nil
}

// BookingIDFromRaw probes a notification's raw data for a booking identifier.
func BookingIDFromRaw(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	raw, err := rawMap(data)
	if err != nil {
		return ""
	}
	return stringField(raw, "booking_id", "bookingId", "ride_id")
}

// Field extraction helpers. Alias keys are tried in order and the first
// present, non-blank value wins. Absent numerics read as 0, absent strings
// as "".

func rawMap(data json.RawMessage) (map[string]any, error) {
	if len(data) == 0 {
		return map[string]any{}, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			if strings.TrimSpace(s) != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}

func floatField(raw map[string]any, keys ...string) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func boolField(raw map[string]any, keys ...string) bool {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b
		case string:
			if parsed, err := strconv.ParseBool(b); err == nil {
				return parsed
			}
		}
	}
	return false
}

func mapField(raw map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if nested, ok := raw[key].(map[string]any); ok {
			return nested
		}
	}
	return nil
}

func timeField(raw map[string]any, keys ...string) time.Time {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		switch ts := v.(type) {
		case string:
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				return parsed
			}
		case float64:
			// Unix seconds or milliseconds depending on magnitude
			if ts > 1e12 {
				return time.UnixMilli(int64(ts))
			}
			if ts > 0 {
				return time.Unix(int64(ts), 0)
			}
		}
	}
	return time.Now()
}
