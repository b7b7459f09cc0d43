package cmd

import (
	"fmt"
	"os"

	"golang-quizlink/internal/adapter/dhcp"
	infraDhcp "golang-quizlink/internal/adapter/infrastructure/dhcp"
	"golang-quizlink/internal/adapter/infrastructure/file"
	"golang-quizlink/internal/adapter/infrastructure/network"
	"golang-quizlink/internal/adapter/infrastructure/supplicant"
	"golang-quizlink/internal/adapter/stack"
	"golang-quizlink/internal/adapter/static"
	"golang-quizlink/internal/adapter/wifi"
	"golang-quizlink/internal/pkg/config"
	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/port"

	"github.com/sirupsen/logrus"
)

var configFlag string

// loadConfig loads, validates and applies the logging section of the config file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	logging.InitLogger(cfg.Logging)
	return cfg, nil
}

// createAddresser creates the DHCP or static addresser for the configured interface.
func createAddresser(cfg config.NetworkConfig, networkMgr port.NetworkManager, fileMgr port.FileManager) (port.Addresser, error) {
	logger := logging.WithInterface(cfg.Interface)

	if cfg.DHCP {
		hostname, err := os.Hostname()
		if err != nil {
			logger.WithError(err).Warn("Failed to read hostname, DHCP requests will not carry one")
		}
		dhcpClient := infraDhcp.NewClientAdapter(hostname)
		logger.Info("Created DHCP addresser")
		return dhcp.NewAddresser(cfg.Interface, dhcpClient, networkMgr, fileMgr), nil
	} else if cfg.Static != nil {
		addresser, err := static.NewAddresser(cfg.Interface, *cfg.Static, networkMgr)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"ip":      cfg.Static.IPAddress,
			"netmask": cfg.Static.Netmask,
			"gateway": cfg.Static.Gateway,
		}).Info("Created static addresser")
		return addresser, nil
	}

	return nil, fmt.Errorf("invalid network configuration: must specify either DHCP or static")
}

// createConnectionManager wires the network stack for the configured interface
// into a connection manager. The caller closes the returned stack.
func createConnectionManager(cfg *config.Config, recorder wifi.Recorder) (*wifi.Manager, *stack.Adapter, error) {
	networkMgr := network.NewManagerAdapter()
	fileMgr := file.NewManagerAdapter("")

	addresser, err := createAddresser(cfg.Network, networkMgr, fileMgr)
	if err != nil {
		return nil, nil, err
	}

	netStack := stack.NewAdapter(cfg.Network.Interface, cfg.Network.SupplicantConfig, networkMgr, fileMgr, addresser).
		WithSupplicantControl(supplicant.NewControlAdapter(supplicant.DefaultCtrlDir))

	manager, err := wifi.NewManager(netStack, cfg.Identity(), wifi.Config{
		Interface:   cfg.Network.Interface,
		MaxAttempts: cfg.Network.Attempts(),
		RetryDelay:  cfg.Network.RetryDelay(),
	})
	if err != nil {
		netStack.Close()
		return nil, nil, err
	}

	return manager.WithRecorder(recorder), netStack, nil
}
