package constants

// Inbound event names
const (
	EventConnected         = "connected"
	EventUserNotifications = "user.notifications"
	EventDriverLocation    = "driver.location.update"
	EventActiveRide        = "active_ride"
	EventChatMessage       = "chat.message"
	EventHeartbeat         = "heartbeat"
)

// Outbound event names
const (
	EventAuth            = "auth"
	EventJoinRoom        = "join-room"
	EventLeaveRoom       = "leave-room"
	EventRequestLocation = "request_driver_location"
)

// Error codes surfaced through the connection status and logs
const (
	ErrorInvalidFormat       = "invalid_format"
	ErrorUnauthorized        = "unauthorized"
	ErrorConnectFailed       = "connect_failed"
	ErrorMaxRetriesExhausted = "max_retries_exhausted"
)
