// Package transport owns the physical streaming connection to the tracking
// backend: dialing, the authentication handshake, heartbeat, the read pump,
// and automatic reconnection with bounded backoff.
package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/limoride/limotrack/internal/pkg/constants"
	"github.com/limoride/limotrack/internal/pkg/logger"
	"github.com/limoride/limotrack/internal/pkg/models"
	"github.com/limoride/limotrack/internal/pkg/retry"
	"github.com/limoride/limotrack/internal/pkg/token"
)

const (
	frameBuffer  = 256
	writeTimeout = 10 * time.Second
)

// StatusFunc observes connection status transitions.
type StatusFunc func(models.ConnectionStatus)

// Manager owns the single live session handle. The handle is exclusively
// owned and replaced here, never concurrently mutated; everything else only
// reads published state.
type Manager struct {
	cfg   models.TrackingConfig
	store token.Store

	rec      *reconnector
	onStatus StatusFunc

	// connectMu single-flights the connect path so teardown, dial, and the
	// conn store happen atomically with respect to other connect attempts.
	connectMu sync.Mutex

	mu          sync.Mutex
	writeMu     sync.Mutex
	conn        *websocket.Conn
	gen         int
	intentional bool
	status      models.ConnectionStatus

	frames   chan models.WSMessage
	done     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a transport manager. onStatus may be nil.
func NewManager(cfg models.TrackingConfig, store token.Store, onStatus StatusFunc) *Manager {
	m := &Manager{
		cfg:      cfg,
		store:    store,
		onStatus: onStatus,
		frames:   make(chan models.WSMessage, frameBuffer),
		done:     make(chan struct{}),
	}

	backoff := retry.BackoffConfig{
		InitialDelay: cfg.ReconnectInitialDelay,
		MaxDelay:     cfg.ReconnectMaxDelay,
		Multiplier:   cfg.ReconnectMultiplier,
		MaxAttempts:  cfg.ReconnectMaxAttempts,
	}
	m.rec = newReconnector(backoff, m.connect)
	m.rec.onSchedule = m.retryScheduled
	m.rec.onExhausted = m.retriesExhausted

	return m
}

// Frames returns the inbound frame stream. Frames are delivered in the order
// the transport received them.
func (m *Manager) Frames() <-chan models.WSMessage {
	return m.frames
}

// Status returns a snapshot of the connection status.
func (m *Manager) Status() models.ConnectionStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// IsConnected reports whether a live session exists.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.conn != nil
}

// Connect establishes a new authenticated session. It never returns an
// error: failures mark the status disconnected and hand control to the
// reconnection schedule.
func (m *Manager) Connect() {
	m.mu.Lock()
	m.intentional = false
	m.mu.Unlock()
	m.rec.reset()
	m.connect()
}

func (m *Manager) connect() {
	// A retry timer firing concurrently with Connect or ForceReconnect must
	// not produce two live sessions; the second attempt waits and then
	// supersedes the first.
	m.connectMu.Lock()
	defer m.connectMu.Unlock()

	// Credentials are recomputed on every attempt, never cached.
	creds, err := token.DeriveCredentials(m.store, m.cfg.UserType)
	if err != nil {
		m.connectFailed(err)
		return
	}

	m.teardownCurrent()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+creds.Bearer)

	dialer := websocket.Dialer{HandshakeTimeout: m.cfg.ConnectTimeout}
	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	defer cancel()

	conn, _, err := dialer.DialContext(ctx, m.cfg.URL, header)
	if err != nil {
		m.connectFailed(err)
		return
	}

	auth := models.AuthPayload{
		UserID:   creds.SubjectID,
		UserType: creds.Role,
		Secret:   creds.Bearer,
	}
	if err := m.writeEvent(conn, constants.EventAuth, auth); err != nil {
		conn.Close()
		m.connectFailed(err)
		return
	}

	m.mu.Lock()
	if m.intentional {
		// Disconnect raced the dial; drop the fresh connection.
		m.mu.Unlock()
		conn.Close()
		return
	}
	m.gen++
	gen := m.gen
	m.conn = conn
	now := time.Now()
	m.status = models.ConnectionStatus{
		Connected:       true,
		LastConnectedAt: &now,
	}
	status := m.status
	m.mu.Unlock()

	m.rec.onConnected()
	m.publishStatus(status)
	logger.Info("Streaming session established",
		logger.String("user_id", creds.SubjectID))

	go m.readPump(conn, gen)
	go m.heartbeatLoop(conn, gen)
}

// Disconnect tears the session down intentionally, suppressing automatic
// reconnection and cancelling any pending retry timer.
func (m *Manager) Disconnect() {
	m.rec.stop()

	m.mu.Lock()
	m.intentional = true
	conn := m.conn
	m.conn = nil
	m.gen++
	m.status.Connected = false
	m.status.IsReconnecting = false
	status := m.status
	m.mu.Unlock()

	if conn != nil {
		m.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		m.writeMu.Unlock()
		conn.Close()
	}

	m.publishStatus(status)
	logger.Info("Streaming session closed")
}

// ForceReconnect resets the attempt counter and error state and connects
// immediately, bypassing backoff. Used for explicit user-triggered retry.
func (m *Manager) ForceReconnect() {
	m.mu.Lock()
	m.intentional = false
	m.status.AttemptCount = 0
	m.status.LastError = ""
	m.status.IsReconnecting = false
	m.mu.Unlock()

	m.rec.reset()
	m.connect()
}

// SendEvent emits an event best-effort. Failures are logged, never returned.
func (m *Manager) SendEvent(event string, payload any) {
	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	if conn == nil {
		logger.Debug("Dropping outbound event, not connected",
			logger.String("event", event))
		return
	}

	if err := m.writeEvent(conn, event, payload); err != nil {
		logger.Warn("Failed to send event",
			logger.String("event", event),
			logger.Err(err))
	}
}

// Shutdown disconnects and releases the frame stream. Safe to call more
// than once.
func (m *Manager) Shutdown() {
	m.Disconnect()
	m.stopOnce.Do(func() { close(m.done) })
}

func (m *Manager) writeEvent(conn *websocket.Conn, event string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = raw
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(models.WSMessage{Event: event, Data: data})
}

func (m *Manager) readPump(conn *websocket.Conn, gen int) {
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			m.readClosed(gen, err)
			return
		}

		var frame models.WSMessage
		if err := json.Unmarshal(msg, &frame); err != nil {
			logger.Warn("Dropping malformed frame", logger.Err(err))
			continue
		}

		select {
		case m.frames <- frame:
		case <-m.done:
			return
		}
	}
}

func (m *Manager) readClosed(gen int, err error) {
	m.mu.Lock()
	if gen != m.gen {
		// A newer connection superseded this one; nothing to report.
		m.mu.Unlock()
		return
	}
	m.conn = nil
	m.status.Connected = false
	intentional := m.intentional
	if !intentional {
		m.status.LastError = err.Error()
	}
	status := m.status
	m.mu.Unlock()

	m.publishStatus(status)

	if !intentional {
		logger.Warn("Streaming session dropped", logger.Err(err))
		m.rec.onDisconnect()
	}
}

func (m *Manager) heartbeatLoop(conn *websocket.Conn, gen int) {
	if m.cfg.HeartbeatInterval <= 0 {
		return
	}

	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			current := m.conn == conn && m.gen == gen
			m.mu.Unlock()
			if !current {
				return
			}
			if err := m.writeEvent(conn, constants.EventHeartbeat, nil); err != nil {
				logger.Debug("Heartbeat write failed", logger.Err(err))
				return
			}
		}
	}
}

func (m *Manager) connectFailed(err error) {
	m.mu.Lock()
	m.status.Connected = false
	m.status.LastError = err.Error()
	intentional := m.intentional
	status := m.status
	m.mu.Unlock()

	logger.Warn("Streaming connect failed", logger.Err(err))
	m.publishStatus(status)

	if !intentional {
		m.rec.onConnectError()
	}
}

// teardownCurrent closes any live connection before a new dial, bumping the
// generation so its read pump cannot report a stale disconnect.
func (m *Manager) teardownCurrent() {
	m.mu.Lock()
	conn := m.conn
	m.conn = nil
	m.gen++
	m.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (m *Manager) retryScheduled(attempt int, delay time.Duration) {
	m.mu.Lock()
	m.status.IsReconnecting = true
	m.status.AttemptCount = attempt
	status := m.status
	m.mu.Unlock()

	logger.Info("Reconnect scheduled",
		logger.Int("attempt", attempt),
		logger.Duration("delay", delay))
	m.publishStatus(status)
}

func (m *Manager) retriesExhausted() {
	m.mu.Lock()
	m.status.IsReconnecting = false
	m.status.LastError = "max reconnection attempts reached"
	status := m.status
	m.mu.Unlock()

	logger.Error("Reconnect attempts exhausted")
	m.publishStatus(status)
}

func (m *Manager) publishStatus(status models.ConnectionStatus) {
	if m.onStatus != nil {
		m.onStatus(status)
	}
}
