// Package tracking ties the live ride tracking core together: an
// authenticated streaming session, typed event decoding, in-memory fan-out
// streams, derived ride state, and notification routing.
package tracking

import (
	"sync"
	"sync/atomic"

	"github.com/limoride/limotrack/internal/pkg/constants"
	"github.com/limoride/limotrack/internal/pkg/logger"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/limoride/limotrack/internal/pkg/token"
	"github.com/limoride/limotrack/services/tracking/aggregator"
	"github.com/limoride/limotrack/services/tracking/events"
	"github.com/limoride/limotrack/services/tracking/hub"
	"github.com/limoride/limotrack/services/tracking/notifier"
	"github.com/limoride/limotrack/services/tracking/transport"
)

// Client is the single entry point for ride tracking. One instance per
// process; all consumers share its hub subscriptions.
type Client struct {
	cfg       models.TrackingConfig
	transport *transport.Manager
	hub       *hub.Hub
	agg       *aggregator.Aggregator
	router    *notifier.Router

	mu          sync.Mutex
	joinedRoom  string
	dispatching bool
	heartbeats  atomic.Int64
	done        chan struct{}
}

// New wires the tracking core. The visibility source and system notifier are
// the two collaborator seams; pass notifier.LogNotifier for headless runs.
func New(cfg models.TrackingConfig, store token.Store, visibility notifier.VisibilitySource, system notifier.SystemNotifier) *Client {
	c := &Client{
		cfg:    cfg,
		hub:    hub.New(),
		agg:    aggregator.New(cfg),
		router: notifier.NewRouter(visibility, system),
		done:   make(chan struct{}),
	}
	c.transport = transport.NewManager(cfg, store, c.hub.PublishStatus)
	return c
}

// Hub exposes the broadcast streams for consumers.
func (c *Client) Hub() *hub.Hub {
	return c.hub
}

// RideState returns the current derived live ride state.
func (c *Client) RideState() models.LiveRideState {
	return c.agg.State()
}

// SubscribeRideState subscribes to derived state snapshots. The latest
// snapshot is replayed on subscribe.
func (c *Client) SubscribeRideState() (<-chan models.LiveRideState, func()) {
	return c.agg.Subscribe()
}

// ConnectionStatus returns the transport's current status.
func (c *Client) ConnectionStatus() models.ConnectionStatus {
	return c.transport.Status()
}

// Heartbeats returns the count of server liveness frames seen this session.
func (c *Client) Heartbeats() int64 {
	return c.heartbeats.Load()
}

// Start connects the streaming session and begins dispatching inbound
// frames. Calling Start more than once only triggers a reconnect.
func (c *Client) Start() {
	c.mu.Lock()
	already := c.dispatching
	c.dispatching = true
	c.mu.Unlock()

	if !already {
		go c.dispatchLoop()
	}
	c.transport.Connect()
}

// ForceReconnect retries the session immediately, resetting the retry
// budget. Bound to the user-facing "retry" action.
func (c *Client) ForceReconnect() {
	c.transport.ForceReconnect()
}

// Shutdown tears down the session and all background work.
func (c *Client) Shutdown() {
	c.mu.Lock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.mu.Unlock()

	c.transport.Shutdown()
	c.agg.Close()
}

// JoinBooking subscribes the session to a booking's event room. Joining a
// new booking leaves the previous room first.
func (c *Client) JoinBooking(bookingID string) {
	if bookingID == "" {
		return
	}

	c.mu.Lock()
	previous := c.joinedRoom
	c.joinedRoom = bookingID
	c.mu.Unlock()

	if previous != "" && previous != bookingID {
		c.transport.SendEvent(constants.EventLeaveRoom, models.RoomPayload{Room: previous})
	}
	if previous != bookingID {
		c.transport.SendEvent(constants.EventJoinRoom, models.RoomPayload{Room: bookingID})
	}
}

// LeaveBooking leaves the booking room, if joined.
func (c *Client) LeaveBooking(bookingID string) {
	c.mu.Lock()
	if c.joinedRoom != bookingID {
		c.mu.Unlock()
		return
	}
	c.joinedRoom = ""
	c.mu.Unlock()

	c.transport.SendEvent(constants.EventLeaveRoom, models.RoomPayload{Room: bookingID})
}

// SendChatMessage emits an outbound chat message for the booking.
func (c *Client) SendChatMessage(bookingID, receiverID, message string) {
	c.transport.SendEvent(constants.EventChatMessage, models.ChatSendPayload{
		BookingID:  bookingID,
		ReceiverID: receiverID,
		Message:    message,
	})
}

// RequestDriverLocation asks the server for a fresh driver position report.
func (c *Client) RequestDriverLocation(bookingID string) {
	c.transport.SendEvent(constants.EventRequestLocation, models.LocationRequestPayload{BookingID: bookingID})
}

func (c *Client) dispatchLoop() {
	frames := c.transport.Frames()
	for {
		select {
		case <-c.done:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			c.dispatch(frame)
		}
	}
}

// dispatch normalizes one frame and routes its projections. A frame that
// fails to decode is logged and dropped; the loop never stops.
func (c *Client) dispatch(frame models.WSMessage) {
	event, err := events.Decode(frame.Event, frame.Data)
	if err != nil {
		logger.Warn("Dropping undecodable frame",
			logger.String("event", frame.Event),
			logger.Err(err))
		return
	}

	switch e := event.(type) {
	case events.Connected:
		logger.Info("Tracking session ready")

	case events.Heartbeat:
		c.heartbeats.Add(1)

	case events.LocationEvent:
		c.hub.PublishLocation(e.Update)
		c.agg.ApplyLocation(e.Update)

	case events.RideEvent:
		c.applyRide(e.Ride)

	case events.ChatEvent:
		c.hub.AppendChat(e.Message)

	case events.NotificationEvent:
		c.hub.AppendNotification(e.Notification)
		if e.Chat != nil {
			c.hub.AppendChat(*e.Chat)
		}
		if e.Ride != nil {
			c.applyRide(*e.Ride)
		}
		c.router.Route(e.Notification)
	}
}

// applyRide publishes a ride snapshot everywhere it matters and keeps the
// session subscribed to the right booking room.
func (c *Client) applyRide(ride models.ActiveRide) {
	c.hub.PublishRide(ride)
	c.agg.ApplyRide(ride)

	if ride.Status.Terminal() {
		c.LeaveBooking(ride.BookingID)
		return
	}

	c.JoinBooking(ride.BookingID)

	// A snapshot without a driver fix means the map has nothing to draw
	// yet; nudge the server for a position report.
	if ride.Driver.IsZero() && ride.DriverID != "" {
		c.RequestDriverLocation(ride.BookingID)
	}
}
