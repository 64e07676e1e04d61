package notifier

import (
	"sync/atomic"

	"github.com/limoride/limotrack/internal/pkg/logger"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/limoride/limotrack/services/tracking/events"
)

// VisibilitySource reports whether the application currently has an
// interactive surface in front of the user.
type VisibilitySource interface {
	IsForeground() bool
}

// AppVisibility is a trivial VisibilitySource backed by an atomic flag.
// Lifecycle hooks call SetForeground on transitions.
type AppVisibility struct {
	foreground atomic.Bool
}

func (v *AppVisibility) SetForeground(fg bool) {
	v.foreground.Store(fg)
}

func (v *AppVisibility) IsForeground() bool {
	return v.foreground.Load()
}

// SystemNotifier posts a notification through the platform notification
// surface.
type SystemNotifier interface {
	Post(notification models.PushNotification) error
}

// LogNotifier is the default SystemNotifier. It records posts in the log
// stream, useful for headless runs and local development.
type LogNotifier struct{}

func (LogNotifier) Post(n models.PushNotification) error {
	logger.Info("System notification posted",
		logger.String("type", n.Type),
		logger.String("title", n.Title),
		logger.String("booking_id", n.BookingID))
	return nil
}

// Router decides where an inbound user notification surfaces. In-app
// streams always receive it; the system tray is used when the app is
// backgrounded, and always for chat so the message survives the user
// navigating away mid-conversation.
type Router struct {
	visibility VisibilitySource
	system     SystemNotifier
}

func NewRouter(visibility VisibilitySource, system SystemNotifier) *Router {
	return &Router{visibility: visibility, system: system}
}

// Route delivers the notification to the system surface when warranted.
// Returns true when a system notification was posted.
func (r *Router) Route(n models.UserNotification) bool {
	if !n.IsChat() && r.visibility.IsForeground() {
		return false
	}

	push := models.PushNotification{
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Message,
		Priority:  n.Priority,
		BookingID: events.BookingIDFromRaw(n.RawData),
	}
	if push.Type == "" {
		push.Type = models.NotificationTypeGeneral
	}

	if err := r.system.Post(push); err != nil {
		logger.Error("System notification post failed",
			logger.String("type", push.Type),
			logger.Err(err))
		return false
	}
	return true
}
