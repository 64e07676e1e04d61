package hub

import (
	"testing"

	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_ReplayLatest(t *testing.T) {
	h := New()
	h.PublishStatus(models.ConnectionStatus{Connected: true})

	// Late subscriber still gets the last value first
	ch, cancel := h.SubscribeStatus()
	defer cancel()

	status := <-ch
	assert.True(t, status.Connected)
}

func TestStatus_NoValueBeforeFirstPublish(t *testing.T) {
	h := New()

	_, ok := h.Status()
	assert.False(t, ok)

	ch, cancel := h.SubscribeStatus()
	defer cancel()
	assert.Empty(t, ch)
}

func TestLocations_LatestWinsPerDriver(t *testing.T) {
	h := New()
	h.PublishLocation(models.DriverLocationUpdate{DriverID: "d1", Latitude: 1})
	h.PublishLocation(models.DriverLocationUpdate{DriverID: "d2", Latitude: 2})
	h.PublishLocation(models.DriverLocationUpdate{DriverID: "d1", Latitude: 3})

	ch, cancel := h.SubscribeLocations()
	defer cancel()

	snapshot := <-ch
	require.Len(t, snapshot, 2)
	assert.Equal(t, 3.0, snapshot["d1"].Latitude)
	assert.Equal(t, 2.0, snapshot["d2"].Latitude)

	u, ok := h.DriverLocation("d1")
	require.True(t, ok)
	assert.Equal(t, 3.0, u.Latitude)
}

func TestRide_ReplayLatest(t *testing.T) {
	h := New()
	h.PublishRide(models.ActiveRide{BookingID: "b1"})
	h.PublishRide(models.ActiveRide{BookingID: "b2"})

	ch, cancel := h.SubscribeRide()
	defer cancel()

	ride := <-ch
	assert.Equal(t, "b2", ride.BookingID)
}

func TestChat_NoBackfillForLateSubscribers(t *testing.T) {
	h := New()
	h.AppendChat(models.ChatMessage{ID: "m1"})

	ch, cancel := h.SubscribeChat()
	defer cancel()

	// Only messages appended after subscription arrive on the channel
	assert.Empty(t, ch)

	h.AppendChat(models.ChatMessage{ID: "m2"})
	msg := <-ch
	assert.Equal(t, "m2", msg.ID)

	// The full list remains available as a snapshot
	assert.Len(t, h.ChatMessages(), 2)
}

func TestIndependentSubscribers(t *testing.T) {
	h := New()

	ch1, cancel1 := h.SubscribeNotifications()
	ch2, cancel2 := h.SubscribeNotifications()
	defer cancel2()

	h.AppendNotification(models.UserNotification{ID: "n1"})
	assert.Equal(t, "n1", (<-ch1).ID)
	assert.Equal(t, "n1", (<-ch2).ID)

	// Cancelling one subscriber must not affect the other
	cancel1()
	h.AppendNotification(models.UserNotification{ID: "n2"})
	assert.Equal(t, "n2", (<-ch2).ID)
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	h := New()

	_, cancel := h.SubscribeStatus()
	defer cancel()

	// Publish far past the subscriber buffer; must not deadlock.
	for i := 0; i < subscriberBuffer*3; i++ {
		h.PublishStatus(models.ConnectionStatus{AttemptCount: i})
	}

	status, ok := h.Status()
	require.True(t, ok)
	assert.Equal(t, subscriberBuffer*3-1, status.AttemptCount)
}
