// Package stack implements the NetworkStack port on Linux: association is left
// to wpa_supplicant, link state and addresses come from netlink.
package stack

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"
	"golang-quizlink/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

// acquireRetryDelay is the wait after a failed address acquisition.
const acquireRetryDelay = 30 * time.Second

// Adapter is the NetworkStack for one wireless interface.
type Adapter struct {
	ifaceName      string
	supplicantPath string
	networkMgr     port.NetworkManager
	fileMgr        port.FileManager
	addresser      port.Addresser
	supplicantCtrl port.SupplicantControl
	logger         *logrus.Entry

	// reconfigurePending is set after a changed write until the supplicant has reloaded it
	reconfigurePending bool

	mu         sync.Mutex
	begun      bool
	acquireErr error
	cancel     context.CancelFunc
	done       chan struct{}
}

// Ensure Adapter implements the NetworkStack port
var _ port.NetworkStack = (*Adapter)(nil)

// NewAdapter creates a network stack for the named interface. An empty
// supplicantPath skips writing the supplicant configuration.
func NewAdapter(ifaceName, supplicantPath string, networkMgr port.NetworkManager, fileMgr port.FileManager, addresser port.Addresser) *Adapter {
	return &Adapter{
		ifaceName:      ifaceName,
		supplicantPath: supplicantPath,
		networkMgr:     networkMgr,
		fileMgr:        fileMgr,
		addresser:      addresser,
		logger:         logging.WithComponentAndInterface("stack", ifaceName).WithField("addressing", addresser.Method()),
	}
}

// WithSupplicantControl makes Begin ask the running supplicant to reload a
// changed configuration. Without it the supplicant must be restarted externally.
func (a *Adapter) WithSupplicantControl(ctrl port.SupplicantControl) *Adapter {
	a.supplicantCtrl = ctrl
	return a
}

// Begin writes the supplicant network block and has the supplicant reload it,
// brings the link up, and restarts address acquisition in the background.
// It returns without waiting for an address.
func (a *Adapter) Begin(ctx context.Context, identity types.NetworkIdentity) error {
	if a.supplicantPath != "" {
		changed, err := a.writeSupplicantConfig(identity)
		if err != nil {
			return err
		}
		if changed {
			a.reconfigurePending = true
		}
		a.reloadSupplicant(ctx)
	}

	link, err := a.networkMgr.GetLinkByName(a.ifaceName)
	if err != nil {
		return fmt.Errorf("failed to get link: %w", err)
	}

	if err := a.networkMgr.SetLinkUp(link); err != nil {
		return fmt.Errorf("failed to bring link up: %w", err)
	}

	a.restartAcquisition(ctx, link)
	return nil
}

// writeSupplicantConfig reports whether the file content changed.
func (a *Adapter) writeSupplicantConfig(identity types.NetworkIdentity) (bool, error) {
	content := renderSupplicantConfig(identity)

	if current, err := a.fileMgr.ReadFile(a.supplicantPath); err == nil && string(current) == content {
		a.logger.Debug("Supplicant configuration already up to date, skipping")
		return false, nil
	}

	if err := a.fileMgr.WriteFile(a.supplicantPath, []byte(content), 0600); err != nil {
		return false, fmt.Errorf("failed to write supplicant configuration: %w", err)
	}

	a.logger.WithField("path", a.supplicantPath).Info("Updated supplicant configuration")
	return true, nil
}

// reloadSupplicant sends a pending reconfigure. A failure is kept pending for
// the next Begin; the link may still come up if the supplicant is restarted.
func (a *Adapter) reloadSupplicant(ctx context.Context) {
	if !a.reconfigurePending || a.supplicantCtrl == nil {
		return
	}

	if err := a.supplicantCtrl.Reconfigure(ctx, a.ifaceName); err != nil {
		a.logger.WithError(err).Warn("Failed to reload supplicant configuration, will retry on next connect")
		return
	}

	a.reconfigurePending = false
	a.logger.Info("Supplicant reloaded configuration")
}

// restartAcquisition stops the running acquisition loop, if any, and starts a new one.
func (a *Adapter) restartAcquisition(ctx context.Context, link netlink.Link) {
	a.stopAcquisition()

	acquireCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	a.mu.Lock()
	a.begun = true
	a.acquireErr = nil
	a.cancel = cancel
	a.done = done
	a.mu.Unlock()

	go a.acquireLoop(acquireCtx, link, done)
}

func (a *Adapter) stopAcquisition() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (a *Adapter) acquireLoop(ctx context.Context, link netlink.Link, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			refresh, err := a.addresser.Acquire(ctx, link)
			if ctx.Err() != nil {
				return
			}

			a.mu.Lock()
			a.acquireErr = err
			a.mu.Unlock()

			if err != nil {
				a.logger.WithError(err).WithField("retry_in", acquireRetryDelay.String()).Error("Address acquisition failed")
				refresh = acquireRetryDelay
			}
			timer.Reset(refresh)
		}
	}
}

// Close stops background address acquisition.
func (a *Adapter) Close() {
	a.stopAcquisition()
}

// Status reports the live link status from netlink. It never blocks on acquisition.
func (a *Adapter) Status() port.LinkStatus {
	a.mu.Lock()
	begun, acquireErr := a.begun, a.acquireErr
	a.mu.Unlock()

	if !begun {
		return port.LinkStatusIdle
	}

	link, err := a.networkMgr.GetLinkByName(a.ifaceName)
	if err != nil || !isLinkUp(link) {
		return port.LinkStatusNoLink
	}

	if ip := a.firstIPv4(link); ip != nil {
		return port.LinkStatusConnected
	}
	if acquireErr != nil {
		return port.LinkStatusConnectFailed
	}
	return port.LinkStatusConnecting
}

// LocalAddress returns the first IPv4 address on the link, or nil.
func (a *Adapter) LocalAddress() net.IP {
	link, err := a.networkMgr.GetLinkByName(a.ifaceName)
	if err != nil {
		return nil
	}
	return a.firstIPv4(link)
}

func (a *Adapter) firstIPv4(link netlink.Link) net.IP {
	addrs, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return nil
	}
	for _, addr := range addrs {
		if addr.IPNet == nil {
			continue
		}
		if ip4 := addr.IPNet.IP.To4(); ip4 != nil && !ip4.IsUnspecified() {
			return ip4
		}
	}
	return nil
}

// isLinkUp treats an unknown operational state as up when the admin flag is set;
// some drivers never report IF_OPER_UP.
func isLinkUp(link netlink.Link) bool {
	attrs := link.Attrs()
	switch attrs.OperState {
	case netlink.OperUp:
		return true
	case netlink.OperUnknown:
		return attrs.Flags&net.FlagUp != 0
	default:
		return false
	}
}
