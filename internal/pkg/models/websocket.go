package models

import "encoding/json"

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// WSErrorMessage represents an error message sent over WebSocket
type WSErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AuthPayload is the auth block sent as the first frame after dialing.
type AuthPayload struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	Secret   string `json:"secret"`
}

// RoomPayload addresses a logical booking room for join-room / leave-room.
type RoomPayload struct {
	Room string `json:"room"`
}

// ChatSendPayload is the outbound chat.message body.
type ChatSendPayload struct {
	BookingID  string `json:"bookingId"`
	ReceiverID string `json:"receiverId"`
	Message    string `json:"message"`
}

// LocationRequestPayload asks the server for a fresh driver position.
type LocationRequestPayload struct {
	BookingID string `json:"bookingId"`
}
