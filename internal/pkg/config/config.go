package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"golang-quizlink/internal/pkg/logging"
	"golang-quizlink/internal/types"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxRetryAttempts   = 30
	DefaultRetryDelayMs       = 500
	DefaultReconnectDelayMs   = 5000
	DefaultPollIntervalMs     = 2000
	DefaultRequestTimeoutMs   = 5000
	DefaultSingleDurationMs   = 5000
	DefaultMultipleDurationMs = 8000
	DefaultGPIORoot           = "/sys/class/gpio"
)

// DefaultPins maps answer codes to GPIO lines (green, yellow, red, blue, white).
var DefaultPins = map[string]int{
	"A": 0,
	"B": 4,
	"C": 14,
	"D": 5,
	"E": 13,
}

// NetworkConfig represents the single network the device joins and how it retries.
type NetworkConfig struct {
	Interface        string                `yaml:"interface"`
	SSID             string                `yaml:"ssid"`
	Passphrase       string                `yaml:"passphrase"`
	SupplicantConfig string                `yaml:"supplicant_config,omitempty"`
	DHCP             bool                  `yaml:"dhcp,omitempty"`
	Static           *types.StaticIPConfig `yaml:"static,omitempty"`
	MaxRetryAttempts *int                  `yaml:"max_retry_attempts,omitempty"`
	RetryDelayMs     *int                  `yaml:"retry_delay_ms,omitempty"`
	ReconnectDelayMs *int                  `yaml:"reconnect_delay_ms,omitempty"`
}

// APIConfig represents the remote question service.
type APIConfig struct {
	URL            string `yaml:"url"`
	PollIntervalMs int    `yaml:"poll_interval_ms,omitempty"`
	TimeoutMs      int    `yaml:"timeout_ms,omitempty"`
}

// OutputsConfig represents the indicator bank.
type OutputsConfig struct {
	Pins               map[string]int `yaml:"pins,omitempty"`
	GPIORoot           string         `yaml:"gpio_root,omitempty"`
	SingleDurationMs   int            `yaml:"single_duration_ms,omitempty"`
	MultipleDurationMs int            `yaml:"multiple_duration_ms,omitempty"`
}

// MetricsConfig represents the optional Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// Config represents the main configuration structure
type Config struct {
	Logging logging.LogConfig `yaml:"logging"`
	Network NetworkConfig     `yaml:"network"`
	API     APIConfig         `yaml:"api"`
	Outputs OutputsConfig     `yaml:"outputs"`
	Metrics MetricsConfig     `yaml:"metrics"`
}

// Load loads configuration from a YAML file and fills in defaults
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Network.MaxRetryAttempts == nil {
		c.Network.MaxRetryAttempts = intPtr(DefaultMaxRetryAttempts)
	}
	if c.Network.RetryDelayMs == nil {
		c.Network.RetryDelayMs = intPtr(DefaultRetryDelayMs)
	}
	if c.Network.ReconnectDelayMs == nil {
		c.Network.ReconnectDelayMs = intPtr(DefaultReconnectDelayMs)
	}
	if c.Network.SupplicantConfig == "" && c.Network.Interface != "" {
		c.Network.SupplicantConfig = fmt.Sprintf("/etc/wpa_supplicant/wpa_supplicant-%s.conf", c.Network.Interface)
	}
	if c.API.PollIntervalMs == 0 {
		c.API.PollIntervalMs = DefaultPollIntervalMs
	}
	if c.API.TimeoutMs == 0 {
		c.API.TimeoutMs = DefaultRequestTimeoutMs
	}
	if len(c.Outputs.Pins) == 0 {
		c.Outputs.Pins = make(map[string]int, len(DefaultPins))
		for code, line := range DefaultPins {
			c.Outputs.Pins[code] = line
		}
	}
	if c.Outputs.GPIORoot == "" {
		c.Outputs.GPIORoot = DefaultGPIORoot
	}
	if c.Outputs.SingleDurationMs == 0 {
		c.Outputs.SingleDurationMs = DefaultSingleDurationMs
	}
	if c.Outputs.MultipleDurationMs == 0 {
		c.Outputs.MultipleDurationMs = DefaultMultipleDurationMs
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateNetwork(); err != nil {
		return err
	}

	if c.API.URL == "" {
		return fmt.Errorf("api: url is required")
	}
	if c.API.PollIntervalMs < 0 || c.API.TimeoutMs < 0 {
		return fmt.Errorf("api: poll_interval_ms and timeout_ms must not be negative")
	}

	seen := make(map[string]string, len(c.Outputs.Pins))
	for code := range c.Outputs.Pins {
		upper := strings.ToUpper(code)
		if len(code) != 1 || !strings.Contains("ABCDE", upper) {
			return fmt.Errorf("outputs: unknown answer code %q, expected one of A-E", code)
		}
		if other, ok := seen[upper]; ok {
			return fmt.Errorf("outputs: answer code %s configured twice (%q and %q)", upper, other, code)
		}
		seen[upper] = code
	}
	if c.Outputs.SingleDurationMs < 0 || c.Outputs.MultipleDurationMs < 0 {
		return fmt.Errorf("outputs: display durations must not be negative")
	}

	return nil
}

func (c *Config) validateNetwork() error {
	n := c.Network
	if n.Interface == "" {
		return fmt.Errorf("network: interface is required")
	}
	if n.SSID == "" {
		return fmt.Errorf("network %s: ssid is required", n.Interface)
	}
	if !n.DHCP && n.Static == nil {
		return fmt.Errorf("network %s: must specify either dhcp or static configuration", n.Interface)
	}
	if n.DHCP && n.Static != nil {
		return fmt.Errorf("network %s: cannot specify both dhcp and static configuration", n.Interface)
	}
	if n.Static != nil {
		if err := validateStaticConfig(n.Interface, n.Static); err != nil {
			return err
		}
	}
	if n.MaxRetryAttempts != nil && *n.MaxRetryAttempts < 1 {
		return fmt.Errorf("network %s: max_retry_attempts must be at least 1", n.Interface)
	}
	if n.RetryDelayMs != nil && *n.RetryDelayMs < 0 {
		return fmt.Errorf("network %s: retry_delay_ms must not be negative", n.Interface)
	}
	if n.ReconnectDelayMs != nil && *n.ReconnectDelayMs < 0 {
		return fmt.Errorf("network %s: reconnect_delay_ms must not be negative", n.Interface)
	}
	return nil
}

func validateStaticConfig(interfaceName string, static *types.StaticIPConfig) error {
	if static.IPAddress == "" {
		return fmt.Errorf("network %s: static IP address is required", interfaceName)
	}
	if static.Netmask == "" {
		return fmt.Errorf("network %s: static netmask is required", interfaceName)
	}
	return nil
}

// Identity returns the network identity the device joins.
func (c *Config) Identity() types.NetworkIdentity {
	return types.NetworkIdentity{
		SSID:       c.Network.SSID,
		Passphrase: c.Network.Passphrase,
	}
}

// RetryDelay returns the fixed wait between connection status checks.
func (n NetworkConfig) RetryDelay() time.Duration {
	return msOrDefault(n.RetryDelayMs, DefaultRetryDelayMs)
}

// ReconnectDelay returns how long the loop backs off after a failed reconnect.
func (n NetworkConfig) ReconnectDelay() time.Duration {
	return msOrDefault(n.ReconnectDelayMs, DefaultReconnectDelayMs)
}

// Attempts returns the retry budget of one connection attempt sequence.
func (n NetworkConfig) Attempts() int {
	if n.MaxRetryAttempts == nil {
		return DefaultMaxRetryAttempts
	}
	return *n.MaxRetryAttempts
}

func msOrDefault(v *int, def int) time.Duration {
	if v == nil {
		return time.Duration(def) * time.Millisecond
	}
	return time.Duration(*v) * time.Millisecond
}

func intPtr(v int) *int {
	return &v
}
