// Package types defines common types used across the application.
package types

// NetworkIdentity is the single pre-configured network the device joins.
// It is loaded once from configuration and never changes.
type NetworkIdentity struct {
	SSID       string `yaml:"ssid"`
	Passphrase string `yaml:"passphrase"` // Empty for open networks
}

// StaticIPConfig represents static IP configuration parameters.
// This type is used when the stack addresses the link without DHCP.
type StaticIPConfig struct {
	IPAddress string `yaml:"ip"`      // IP address in dotted decimal notation (e.g., "192.168.1.100")
	Netmask   string `yaml:"netmask"` // Subnet mask in dotted decimal notation (e.g., "255.255.255.0")
	Gateway   string `yaml:"gateway"` // Default gateway IP address (optional)
}
