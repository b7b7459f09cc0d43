// Package static addresses a link from a fixed configuration and keeps it applied.
package static

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"
	"golang-quizlink/internal/types"

	"github.com/vishvananda/netlink"
)

// recheckInterval is how often the configuration is re-verified and repaired.
const recheckInterval = 30 * time.Second

// Addresser implements the Addresser port with a static IPv4 configuration.
type Addresser struct {
	ifaceName  string
	ipNet      *net.IPNet
	gateway    net.IP
	networkMgr port.NetworkManager
}

// Ensure Addresser implements the Addresser port
var _ port.Addresser = (*Addresser)(nil)

// NewAddresser validates the static configuration and creates an addresser for the named interface.
func NewAddresser(ifaceName string, config types.StaticIPConfig, networkMgr port.NetworkManager) (*Addresser, error) {
	ip := net.ParseIP(config.IPAddress)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("invalid IP address: %s", config.IPAddress)
	}

	mask := net.ParseIP(config.Netmask)
	if mask == nil || mask.To4() == nil {
		return nil, fmt.Errorf("invalid netmask: %s", config.Netmask)
	}

	var gateway net.IP
	if config.Gateway != "" {
		gateway = net.ParseIP(config.Gateway)
		if gateway == nil {
			return nil, fmt.Errorf("invalid gateway address: %s", config.Gateway)
		}
	}

	return &Addresser{
		ifaceName: ifaceName,
		ipNet: &net.IPNet{
			IP:   ip.To4(),
			Mask: net.IPMask(mask.To4()),
		},
		gateway:    gateway,
		networkMgr: networkMgr,
	}, nil
}

// Method names the addressing method for logs.
func (a *Addresser) Method() string {
	return "static"
}

// Acquire applies the static address and gateway. It is idempotent and is
// called again after the returned interval to repair drift.
func (a *Addresser) Acquire(ctx context.Context, link netlink.Link) (time.Duration, error) {
	if err := a.applyStaticConfig(ctx, link); err != nil {
		return 0, fmt.Errorf("failed to apply static configuration: %w", err)
	}
	return recheckInterval, nil
}

// applyStaticConfig applies the static IP configuration to the interface using netlink.
func (a *Addresser) applyStaticConfig(ctx context.Context, link netlink.Link) error {
	logger := logging.WithComponentAndInterface("static", a.ifaceName)

	existingAddrs, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	targetConfigured := false
	for _, addr := range existingAddrs {
		if addr.IPNet.IP.Equal(a.ipNet.IP) && addr.IPNet.Mask.String() == a.ipNet.Mask.String() {
			targetConfigured = true
			break
		}
	}

	if !targetConfigured {
		for _, addr := range existingAddrs {
			if addr.IPNet.IP.Equal(a.ipNet.IP) {
				continue
			}
			if err := a.networkMgr.DeleteAddress(link, &addr); err != nil {
				logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to remove existing address")
			} else {
				logger.WithField("address", addr.IPNet.String()).Debug("Removed existing address")
			}
		}

		if err := a.networkMgr.AddAddress(link, &netlink.Addr{IPNet: a.ipNet}); err != nil {
			return fmt.Errorf("failed to add IP address %s: %w", a.ipNet.String(), err)
		}
		logger.WithField("ip", a.ipNet.String()).Info("Successfully added IP address")
	}

	if a.gateway != nil {
		if err := a.configureDefaultRoute(ctx, link); err != nil {
			return fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	return nil
}

// configureDefaultRoute configures the default gateway for the interface.
func (a *Addresser) configureDefaultRoute(ctx context.Context, link netlink.Link) error {
	logger := logging.WithComponentAndInterface("static", a.ifaceName).WithField("gateway", a.gateway.String())

	routes, err := a.networkMgr.ListRoutes()
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	hasDefaultRoute := false
	for _, route := range routes {
		if route.Dst != nil || route.Gw == nil {
			continue
		}
		if route.Gw.Equal(a.gateway) && route.LinkIndex == link.Attrs().Index {
			hasDefaultRoute = true
			continue
		}
		if err := a.networkMgr.DeleteRoute(&route); err != nil {
			logger.WithError(err).WithField("existing_gateway", route.Gw.String()).
				Warn("Failed to remove existing default route")
		} else {
			logger.WithField("existing_gateway", route.Gw.String()).
				Debug("Removed conflicting default route")
		}
	}

	if hasDefaultRoute {
		return nil
	}

	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        a.gateway,
	}
	if err := a.networkMgr.AddRoute(route); err != nil {
		if strings.Contains(err.Error(), "file exists") {
			logger.Debug("Default route already exists, ignoring error")
			return nil
		}
		return fmt.Errorf("failed to add default route: %w", err)
	}

	logger.Info("Successfully configured default route")
	return nil
}
