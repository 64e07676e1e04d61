// Package events normalizes raw streaming frames into typed domain events.
// Inbound payloads are loosely keyed and have accumulated several historical
// field spellings; decoding is defensive and alias-aware.
package events

import (
	"fmt"
	"time"

	"github.com/limoride/limotrack/internal/pkg/models"
)

// DomainEvent is one normalized inbound event.
type DomainEvent interface {
	domainEvent()
}

// Connected signals the server acknowledged the session.
type Connected struct {
	At time.Time
}

// Heartbeat is a server liveness frame.
type Heartbeat struct {
	At time.Time
}

// LocationEvent carries a driver position report.
type LocationEvent struct {
	Update models.DriverLocationUpdate
}

// RideEvent carries a full active-ride snapshot.
type RideEvent struct {
	Ride models.ActiveRide
}

// ChatEvent carries one chat message.
type ChatEvent struct {
	Message models.ChatMessage
}

// NotificationEvent carries a user notification. When the notification embeds
// a chat payload or live-ride metadata, the projections are attached so the
// dispatcher can publish each exactly once.
type NotificationEvent struct {
	Notification models.UserNotification
	Chat         *models.ChatMessage
	Ride         *models.ActiveRide
}

func (Connected) domainEvent()         {}
func (Heartbeat) domainEvent()         {}
func (LocationEvent) domainEvent()     {}
func (RideEvent) domainEvent()         {}
func (ChatEvent) domainEvent()         {}
func (NotificationEvent) domainEvent() {}

// DecodeError describes a frame that could not be normalized. One bad frame
// is dropped and logged; it never stops the dispatch loop.
type DecodeError struct {
	Event  string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %q event: %s: %v", e.Event, e.Reason, e.Err)
	}
	return fmt.Sprintf("decoding %q event: %s", e.Event, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
