package models

import "time"

// ChatMessage represents one message in the ride conversation. The list is
// append-only; a message is never mutated after creation.
type ChatMessage struct {
	ID           string    `json:"id"`
	BookingID    string    `json:"booking_id"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	IsFromDriver bool      `json:"is_from_driver"`
}
