package models

import (
	"encoding/json"
	"time"
)

// Notification types the backend is known to emit.
const (
	NotificationTypeLiveRide = "live_ride"
	NotificationTypeChat     = "chat"
	NotificationTypeGeneral  = "general"
)

// UserNotification represents an inbound user-facing notification. RawData
// keeps the original payload so downstream consumers can extract embedded
// chat or ride data without re-fetching.
type UserNotification struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Type      string          `json:"type"`
	Priority  string          `json:"priority"`
	RawData   json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Replayed  bool            `json:"replayed"`
}

// IsChat reports whether the notification carries a chat payload.
func (n UserNotification) IsChat() bool {
	return n.Type == NotificationTypeChat
}

// PushNotification is the value handed to the system-level notification
// display path. Producing it and deciding whether to call the path is this
// core's whole responsibility; rendering is the collaborator's.
type PushNotification struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	BookingID string `json:"booking_id,omitempty"`
	Priority  string `json:"priority,omitempty"`
}
