// Package supplicant talks to a running wpa_supplicant over its control socket.
package supplicant

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"golang-quizlink/internal/port"
)

const (
	// DefaultCtrlDir matches the ctrl_interface written into the generated configuration.
	DefaultCtrlDir = "/run/wpa_supplicant"

	defaultTimeout = 5 * time.Second
	maxReplySize   = 4096
)

var localSeq atomic.Uint64

// ControlAdapter implements the SupplicantControl port with the
// wpa_supplicant control protocol on a unix datagram socket.
type ControlAdapter struct {
	ctrlDir  string
	localDir string
	timeout  time.Duration
}

// Ensure ControlAdapter implements the SupplicantControl port
var _ port.SupplicantControl = (*ControlAdapter)(nil)

// NewControlAdapter creates a control adapter for sockets under ctrlDir.
// An empty ctrlDir means DefaultCtrlDir.
func NewControlAdapter(ctrlDir string) *ControlAdapter {
	if ctrlDir == "" {
		ctrlDir = DefaultCtrlDir
	}
	return &ControlAdapter{
		ctrlDir:  ctrlDir,
		localDir: os.TempDir(),
		timeout:  defaultTimeout,
	}
}

// Reconfigure sends RECONFIGURE and expects OK.
func (c *ControlAdapter) Reconfigure(ctx context.Context, interfaceName string) error {
	reply, err := c.request(ctx, interfaceName, "RECONFIGURE")
	if err != nil {
		return err
	}
	if reply != "OK" {
		return fmt.Errorf("wpa_supplicant rejected RECONFIGURE on %s: %s", interfaceName, reply)
	}
	return nil
}

// request sends one command and returns the trimmed reply. The client socket
// must be bound so the supplicant has an address to answer to.
func (c *ControlAdapter) request(ctx context.Context, interfaceName, command string) (string, error) {
	local := filepath.Join(c.localDir, fmt.Sprintf("quizlink_ctrl_%d-%d", os.Getpid(), localSeq.Add(1)))
	remote := filepath.Join(c.ctrlDir, interfaceName)

	conn, err := net.DialUnix("unixgram",
		&net.UnixAddr{Name: local, Net: "unixgram"},
		&net.UnixAddr{Name: remote, Net: "unixgram"})
	if err != nil {
		return "", fmt.Errorf("failed to open control socket %s: %w", remote, err)
	}
	defer os.Remove(local)
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return "", fmt.Errorf("failed to set control socket deadline: %w", err)
	}

	if _, err := conn.Write([]byte(command)); err != nil {
		return "", fmt.Errorf("failed to send %s to %s: %w", command, remote, err)
	}

	buf := make([]byte, maxReplySize)
	n, err := conn.Read(buf)
	if err != nil {
		return "", fmt.Errorf("no reply to %s from %s: %w", command, remote, err)
	}
	return strings.TrimSpace(string(buf[:n])), nil
}
