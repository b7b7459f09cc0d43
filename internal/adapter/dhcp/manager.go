// Package dhcp addresses a link from a DHCP lease and keeps the lease renewed.
package dhcp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/sirupsen/logrus"
	"github.com/vishvananda/netlink"
)

const (
	defaultMaxRetries   = 3
	defaultRetryDelay   = 2 * time.Second
	defaultLeaseTimeout = 15 * time.Second
	defaultRenewal      = 30 * time.Second
	resolvConfPath      = "/etc/resolv.conf"
)

// Addresser implements the Addresser port with a DHCPv4 lease.
type Addresser struct {
	ifaceName  string
	dhcpClient port.DHCPClient
	networkMgr port.NetworkManager
	fileMgr    port.FileManager

	maxRetries   int
	retryDelay   time.Duration
	leaseTimeout time.Duration
}

// Ensure Addresser implements the Addresser port
var _ port.Addresser = (*Addresser)(nil)

// NewAddresser creates a DHCP addresser for the named interface.
func NewAddresser(ifaceName string, dhcpClient port.DHCPClient, networkMgr port.NetworkManager, fileMgr port.FileManager) *Addresser {
	return &Addresser{
		ifaceName:    ifaceName,
		dhcpClient:   dhcpClient,
		networkMgr:   networkMgr,
		fileMgr:      fileMgr,
		maxRetries:   defaultMaxRetries,
		retryDelay:   defaultRetryDelay,
		leaseTimeout: defaultLeaseTimeout,
	}
}

// Method names the addressing method for logs.
func (a *Addresser) Method() string {
	return "dhcp"
}

// Acquire obtains a lease, applies it to the link, and returns the renewal time (T1).
func (a *Addresser) Acquire(ctx context.Context, link netlink.Link) (time.Duration, error) {
	logger := logging.WithComponentAndInterface("dhcp", a.ifaceName)

	lease, err := a.getDHCPLease(ctx, logger)
	if err != nil {
		return 0, err
	}

	if err := a.applyDHCPLease(ctx, link, lease); err != nil {
		return 0, fmt.Errorf("failed to apply DHCP lease: %w", err)
	}

	renewal := lease.IPAddressRenewalTime(defaultRenewal)
	logger.WithField("renewal_time", renewal.String()).Info("Lease applied, renewing later")
	return renewal, nil
}

// getDHCPLease performs the complete DHCP DISCOVER/OFFER/REQUEST/ACK sequence
func (a *Addresser) getDHCPLease(ctx context.Context, logger *logrus.Entry) (*dhcpv4.DHCPv4, error) {
	var lastErr error
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		logger.WithField("attempt", fmt.Sprintf("%d/%d", attempt, a.maxRetries)).Debug("Attempting DHCP lease")

		ack, err := a.dhcpClient.RequestLease(ctx, a.ifaceName, a.leaseTimeout)
		if err == nil {
			logger.WithField("ip", ack.YourIPAddr.String()).Info("Successfully obtained DHCP lease")
			return ack, nil
		}

		lastErr = err
		logger.WithError(err).WithField("attempt", attempt).Warn("DHCP lease request failed")
		if attempt == a.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(a.retryDelay):
		}
	}

	return nil, fmt.Errorf("DHCP lease request failed after %d attempts: %w", a.maxRetries, lastErr)
}

// applyDHCPLease configures the link with the received lease using netlink
func (a *Addresser) applyDHCPLease(ctx context.Context, link netlink.Link, ack *dhcpv4.DHCPv4) error {
	logger := logging.WithComponentAndInterface("dhcp", a.ifaceName)

	subnetMask := ack.SubnetMask()
	if subnetMask == nil {
		// Default to /24 if no subnet mask provided
		subnetMask = net.IPv4Mask(255, 255, 255, 0)
	}

	ipNet := &net.IPNet{
		IP:   ack.YourIPAddr,
		Mask: subnetMask,
	}

	existingAddrs, err := a.networkMgr.ListAddresses(link)
	if err != nil {
		return fmt.Errorf("failed to list existing addresses: %w", err)
	}

	targetConfigured := false
	for _, addr := range existingAddrs {
		if addr.IPNet.IP.Equal(ipNet.IP) && addr.IPNet.Mask.String() == ipNet.Mask.String() {
			logger.WithField("ip", ipNet.String()).Debug("IP address already configured, skipping")
			targetConfigured = true
			break
		}
	}

	leaseTime := ack.IPAddressLeaseTime(60 * time.Second)

	if !targetConfigured {
		// Drop addresses from an earlier lease before adding the new one
		for _, addr := range existingAddrs {
			if addr.IPNet.IP.Equal(ipNet.IP) {
				continue
			}
			if err := a.networkMgr.DeleteAddress(link, &addr); err != nil {
				logger.WithError(err).WithField("address", addr.IPNet.String()).Warn("Failed to remove existing address")
			}
		}

		addr := &netlink.Addr{
			IPNet:       ipNet,
			ValidLft:    int(leaseTime.Seconds()),
			PreferedLft: int(leaseTime.Seconds()),
		}
		if err := a.networkMgr.AddAddress(link, addr); err != nil {
			return fmt.Errorf("failed to add IP address %s: %w", ipNet.String(), err)
		}
		logger.WithFields(logrus.Fields{
			"ip":         ipNet.String(),
			"lease_time": leaseTime.String(),
		}).Info("Successfully added IP address")
	}

	if routers := ack.Router(); len(routers) > 0 {
		if err := a.configureDefaultRoute(ctx, link, routers[0]); err != nil {
			return fmt.Errorf("failed to set default gateway: %w", err)
		}
	}

	if dnsServers := ack.DNS(); len(dnsServers) > 0 {
		if err := a.configureDNS(ctx, dnsServers); err != nil {
			logger.WithError(err).Warn("Failed to configure DNS")
		}
	}

	return nil
}

// configureDefaultRoute replaces any other default route with one via gateway
func (a *Addresser) configureDefaultRoute(ctx context.Context, link netlink.Link, gateway net.IP) error {
	logger := logging.WithComponentAndInterface("dhcp", a.ifaceName).WithField("gateway", gateway.String())

	routes, err := a.networkMgr.ListRoutes()
	if err != nil {
		return fmt.Errorf("failed to list routes: %w", err)
	}

	for _, route := range routes {
		if !isDefaultRoute(route) {
			continue
		}
		if route.Gw != nil && route.Gw.Equal(gateway) && route.LinkIndex == link.Attrs().Index {
			logger.Debug("Default route already exists, skipping")
			return nil
		}
	}

	for _, route := range routes {
		if !isDefaultRoute(route) {
			continue
		}
		if err := a.networkMgr.DeleteRoute(&route); err != nil {
			logger.WithError(err).Warn("Failed to remove existing default route")
		}
	}

	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gateway,
	}
	if err := a.networkMgr.AddRoute(route); err != nil {
		return fmt.Errorf("failed to add default route: %w", err)
	}

	logger.Info("Successfully added default route")
	return nil
}

func isDefaultRoute(route netlink.Route) bool {
	return route.Dst == nil || route.Dst.String() == "0.0.0.0/0"
}

// configureDNS writes DNS servers to /etc/resolv.conf
func (a *Addresser) configureDNS(ctx context.Context, dnsServers []net.IP) error {
	logger := logging.WithComponentAndInterface("dhcp", a.ifaceName)

	var b strings.Builder
	b.WriteString("# Generated by golang-quizlink\n")
	for _, dns := range dnsServers {
		b.WriteString(fmt.Sprintf("nameserver %s\n", dns.String()))
	}
	newContent := b.String()

	if currentContent, err := a.fileMgr.ReadFile(resolvConfPath); err == nil && string(currentContent) == newContent {
		logger.Debug("DNS configuration already up to date, skipping")
		return nil
	}

	if err := a.fileMgr.WriteFile(resolvConfPath, []byte(newContent), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", resolvConfPath, err)
	}

	logger.Info("Updated /etc/resolv.conf with DNS servers")
	return nil
}
