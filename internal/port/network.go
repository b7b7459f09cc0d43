// Package port defines the primary ports (interfaces) for the application.
// This follows the Ports and Adapters (Hexagonal Architecture) pattern.
package port

//go:generate mockgen -source=network.go -destination=../mock/network.go -package=mock

import (
	"context"
	"net"

	"golang-quizlink/internal/types"
)

// LinkStatus is the connectivity status reported by the underlying network stack.
type LinkStatus int

const (
	// LinkStatusIdle means Begin has not been called yet.
	LinkStatusIdle LinkStatus = iota

	// LinkStatusNoLink means the interface is missing, down, or not associated.
	LinkStatusNoLink

	// LinkStatusConnecting means the link is up but no address is assigned yet.
	LinkStatusConnecting

	// LinkStatusConnected means the link is up and an IPv4 address is assigned.
	LinkStatusConnected

	// LinkStatusConnectFailed means the last address acquisition failed.
	LinkStatusConnectFailed
)

// String returns the string representation of a LinkStatus.
func (s LinkStatus) String() string {
	switch s {
	case LinkStatusIdle:
		return "idle"
	case LinkStatusNoLink:
		return "no_link"
	case LinkStatusConnecting:
		return "connecting"
	case LinkStatusConnected:
		return "connected"
	case LinkStatusConnectFailed:
		return "connect_failed"
	default:
		return "unknown"
	}
}

// NetworkStack is the port to the platform component that associates with the
// network and reports real-time status. It is the sole source of truth for
// connectivity.
type NetworkStack interface {
	// Begin hands the identity to the association layer, makes it apply the
	// identity, and starts address acquisition. It does not wait for the link to come up.
	Begin(ctx context.Context, identity types.NetworkIdentity) error

	// Status reports the current link status without blocking.
	Status() LinkStatus

	// LocalAddress returns the IPv4 address currently assigned, or nil.
	LocalAddress() net.IP
}

// ConnectionManager is the primary port consumed by the poll loop.
// Implementations own the link state and perform bounded-retry connection attempts.
type ConnectionManager interface {
	// Connect blocks until the stack reports connected or the retry budget is exhausted.
	Connect(ctx context.Context) bool

	// IsConnected queries the stack's live status.
	IsConnected() bool

	// Address returns the assigned address, or "0.0.0.0" when not connected.
	Address() string

	// EnsureConnected returns immediately when connected, otherwise reconnects.
	EnsureConnected(ctx context.Context) bool
}
