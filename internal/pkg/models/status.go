package models

import "time"

// ConnectionStatus describes the streaming session's lifecycle state. It is
// mutated only by the transport layer; everything else observes it read-only
// through the broadcast hub.
type ConnectionStatus struct {
	Connected       bool       `json:"connected"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
	AttemptCount    int        `json:"attempt_count"`
	IsReconnecting  bool       `json:"is_reconnecting"`
	LastError       string     `json:"last_error,omitempty"`
}
