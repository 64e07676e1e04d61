// Package hub fans normalized domain events out to independent per-topic
// streams so multiple consumers can observe without re-parsing frames.
package hub

import (
	"sync"

	"github.com/limoride/limotrack/internal/pkg/models"
)

// Hub owns all topic state. Topics are updated only by the dispatch loop in
// response to inbound events; consumers read through subscriptions and
// snapshot accessors.
type Hub struct {
	status *State[models.ConnectionStatus]
	ride   *State[models.ActiveRide]

	locMu     sync.RWMutex
	locations map[string]models.DriverLocationUpdate
	locTopic  *State[map[string]models.DriverLocationUpdate]

	chat          *Feed[models.ChatMessage]
	notifications *Feed[models.UserNotification]
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{
		status:        NewState[models.ConnectionStatus](),
		ride:          NewState[models.ActiveRide](),
		locations:     make(map[string]models.DriverLocationUpdate),
		locTopic:      NewState[map[string]models.DriverLocationUpdate](),
		chat:          NewFeed[models.ChatMessage](),
		notifications: NewFeed[models.UserNotification](),
	}
}

// PublishStatus records a connection status transition.
func (h *Hub) PublishStatus(status models.ConnectionStatus) {
	h.status.Publish(status)
}

// SubscribeStatus observes connection status with replay-latest semantics.
func (h *Hub) SubscribeStatus() (<-chan models.ConnectionStatus, func()) {
	return h.status.Subscribe()
}

// Status returns the last known connection status.
func (h *Hub) Status() (models.ConnectionStatus, bool) {
	return h.status.Last()
}

// PublishLocation records a driver position, latest wins per driver id, and
// publishes a snapshot of the whole map.
func (h *Hub) PublishLocation(update models.DriverLocationUpdate) {
	h.locMu.Lock()
	h.locations[update.DriverID] = update
	snapshot := make(map[string]models.DriverLocationUpdate, len(h.locations))
	for id, u := range h.locations {
		snapshot[id] = u
	}
	h.locMu.Unlock()

	h.locTopic.Publish(snapshot)
}

// SubscribeLocations observes the driver-location map with replay-latest
// semantics.
func (h *Hub) SubscribeLocations() (<-chan map[string]models.DriverLocationUpdate, func()) {
	return h.locTopic.Subscribe()
}

// DriverLocation returns the latest position for one driver.
func (h *Hub) DriverLocation(driverID string) (models.DriverLocationUpdate, bool) {
	h.locMu.RLock()
	defer h.locMu.RUnlock()
	u, ok := h.locations[driverID]
	return u, ok
}

// PublishRide replaces the active-ride snapshot.
func (h *Hub) PublishRide(ride models.ActiveRide) {
	h.ride.Publish(ride)
}

// SubscribeRide observes active-ride snapshots with replay-latest semantics.
func (h *Hub) SubscribeRide() (<-chan models.ActiveRide, func()) {
	return h.ride.Subscribe()
}

// Ride returns the last known active ride.
func (h *Hub) Ride() (models.ActiveRide, bool) {
	return h.ride.Last()
}

// AppendChat appends a chat message. Subscribers see only messages appended
// after they subscribed.
func (h *Hub) AppendChat(msg models.ChatMessage) {
	h.chat.Append(msg)
}

// SubscribeChat observes new chat messages, without backfill.
func (h *Hub) SubscribeChat() (<-chan models.ChatMessage, func()) {
	return h.chat.Subscribe()
}

// ChatMessages returns a copy of the full conversation so far.
func (h *Hub) ChatMessages() []models.ChatMessage {
	return h.chat.Items()
}

// AppendNotification appends a user notification.
func (h *Hub) AppendNotification(n models.UserNotification) {
	h.notifications.Append(n)
}

// SubscribeNotifications observes new notifications, without backfill.
func (h *Hub) SubscribeNotifications() (<-chan models.UserNotification, func()) {
	return h.notifications.Subscribe()
}

// Notifications returns a copy of all notifications received so far.
func (h *Hub) Notifications() []models.UserNotification {
	return h.notifications.Items()
}
