// Package wifi implements the connection lifecycle manager for the device's single network.
package wifi

import (
	"context"
	"fmt"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"
	"golang-quizlink/internal/types"

	"github.com/sirupsen/logrus"
)

// Config holds the retry budget of one connection attempt sequence.
type Config struct {
	Interface   string        // Used for log context only
	MaxAttempts int           // Status checks after Begin, at least 1
	RetryDelay  time.Duration // Fixed wait before each status check
}

// Manager implements the ConnectionManager port on top of a NetworkStack.
// It is owned by a single goroutine and holds no locks.
type Manager struct {
	stack    port.NetworkStack
	identity types.NetworkIdentity
	cfg      Config
	recorder Recorder
	logger   *logrus.Entry

	state   State
	address string

	sleep func(ctx context.Context, d time.Duration) error
}

// Ensure Manager implements the ConnectionManager port
var _ port.ConnectionManager = (*Manager)(nil)

// NewManager creates a connection manager for the given identity.
func NewManager(stack port.NetworkStack, identity types.NetworkIdentity, cfg Config) (*Manager, error) {
	if stack == nil {
		return nil, fmt.Errorf("network stack is required")
	}
	if cfg.MaxAttempts < 1 {
		return nil, fmt.Errorf("max attempts must be at least 1, got %d", cfg.MaxAttempts)
	}
	if cfg.RetryDelay < 0 {
		return nil, fmt.Errorf("retry delay must not be negative, got %s", cfg.RetryDelay)
	}

	return &Manager{
		stack:    stack,
		identity: identity,
		cfg:      cfg,
		recorder: noopRecorder{},
		logger:   logging.WithComponentAndInterface("wifi", cfg.Interface).WithField("ssid", identity.SSID),
		state:    StateDisconnected,
		sleep:    sleepContext,
	}, nil
}

// WithRecorder attaches a lifecycle recorder and returns the manager for chaining.
func (m *Manager) WithRecorder(r Recorder) *Manager {
	if r != nil {
		m.recorder = r
		m.recorder.ObserveState(m.state.String())
	}
	return m
}

// State returns the last link state the manager observed.
func (m *Manager) State() State {
	return m.state
}

// Connect starts association with the configured identity and polls the stack
// once per retry delay until it reports connected or the budget runs out.
// A cancelled context ends the sequence early as a failure.
func (m *Manager) Connect(ctx context.Context) bool {
	m.address = ""
	m.setState(StateConnecting)
	m.logger.WithFields(logrus.Fields{
		"max_attempts": m.cfg.MaxAttempts,
		"retry_delay":  m.cfg.RetryDelay.String(),
	}).Info("Connecting to network")

	if err := m.stack.Begin(ctx, m.identity); err != nil {
		m.logger.WithError(err).Error("Failed to start network association")
		return m.fail()
	}

	status := m.stack.Status()
	for attempt := 1; status != port.LinkStatusConnected && attempt <= m.cfg.MaxAttempts; attempt++ {
		if err := m.sleep(ctx, m.cfg.RetryDelay); err != nil {
			m.logger.WithError(err).Warn("Connection attempt cancelled")
			return m.fail()
		}
		m.recorder.ObserveAttempt()
		status = m.stack.Status()
		m.logger.WithFields(logrus.Fields{
			"attempt": fmt.Sprintf("%d/%d", attempt, m.cfg.MaxAttempts),
			"status":  status.String(),
		}).Debug("Waiting for link")
	}

	if status != port.LinkStatusConnected {
		return m.fail()
	}

	if ip := m.stack.LocalAddress(); ip != nil {
		m.address = ip.String()
	}
	m.setState(StateConnected)
	m.recorder.ObserveResult(true)
	m.recorder.ObserveLinkUp(true)
	m.logger.WithField("ip", m.address).Info("Connected to network")
	return true
}

func (m *Manager) fail() bool {
	m.address = ""
	m.setState(StateFailed)
	m.recorder.ObserveResult(false)
	m.logger.Error("Failed to connect to network, check the credentials and try again")
	return false
}

// IsConnected asks the stack for its live status. A link that dropped since
// the last successful Connect moves the manager to Disconnected here.
func (m *Manager) IsConnected() bool {
	up := m.stack.Status() == port.LinkStatusConnected
	m.recorder.ObserveLinkUp(up)
	if up {
		return true
	}

	if m.state == StateConnected {
		m.logger.WithField("ip", m.address).Warn("Network link lost")
		m.address = ""
		m.setState(StateDisconnected)
	}
	return false
}

// Address returns the current address while connected, UnassignedAddress otherwise.
func (m *Manager) Address() string {
	if !m.IsConnected() {
		return UnassignedAddress
	}
	if ip := m.stack.LocalAddress(); ip != nil && !ip.IsUnspecified() {
		return ip.String()
	}
	if m.address != "" {
		return m.address
	}
	return UnassignedAddress
}

// EnsureConnected is cheap when the link is up and otherwise behaves like Connect.
func (m *Manager) EnsureConnected(ctx context.Context) bool {
	if m.IsConnected() {
		return true
	}

	m.logger.WithField("state", m.state.String()).Warn("Network disconnected, trying to reconnect")
	return m.Connect(ctx)
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.logger.WithFields(logrus.Fields{
		"from": m.state.String(),
		"to":   s.String(),
	}).Debug("Link state changed")
	m.state = s
	m.recorder.ObserveState(s.String())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
