package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"evmscan/pkg/network"
)

const ConfigFileName = ".evmscan.json"

const (
	DefaultTxLimit           = 100
	DefaultRequestTimeout    = 10
	DefaultRequestsPerSecond = 5.0
	DefaultDateLayout        = "02.01.2006, 15:04:05"
	DefaultPort              = 8080
)

// NetworkConfig holds the explorer endpoints and credentials for one network.
type NetworkConfig struct {
	APIURL            string  `json:"api_url"`
	ExplorerURL       string  `json:"explorer_url"`
	APIKey            string  `json:"api_key,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// ServerConfig holds settings for the HTML front-end.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Config holds application-wide settings.
type Config struct {
	Networks              map[network.Network]NetworkConfig `json:"networks"`
	TxLimit               int                               `json:"tx_limit"`
	RequestTimeoutSeconds int                               `json:"request_timeout_seconds"`
	DateLayout            string                            `json:"date_layout"`
	TimeZone              string                            `json:"time_zone"`
	Server                ServerConfig                      `json:"server"`
	LogLevel              string                            `json:"log_level"`
	LogFile               string                            `json:"log_file,omitempty"`
}

// Default returns the built-in configuration for both networks.
func Default() Config {
	nets := make(map[network.Network]NetworkConfig, len(network.All))
	for _, n := range network.All {
		nets[n] = NetworkConfig{
			APIURL:            n.DefaultAPIURL(),
			ExplorerURL:       n.DefaultExplorerURL(),
			RequestsPerSecond: DefaultRequestsPerSecond,
		}
	}
	return Config{
		Networks:              nets,
		TxLimit:               DefaultTxLimit,
		RequestTimeoutSeconds: DefaultRequestTimeout,
		DateLayout:            DefaultDateLayout,
		TimeZone:              "Local",
		Server:                ServerConfig{Host: "0.0.0.0", Port: DefaultPort},
		LogLevel:              "info",
	}
}

func GetConfigPath(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ConfigFileName), nil
}

// LoadConfigFromFile reads the config at path. A missing file yields the defaults.
// Environment overrides are applied in both cases.
func LoadConfigFromFile(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		cfg := Default()
		cfg.loadEnv()
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.loadEnv()
	return cfg, nil
}

// LoadConfig decodes a JSON document on top of the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var raw struct {
		Networks map[string]struct {
			APIURL            *string  `json:"api_url"`
			ExplorerURL       *string  `json:"explorer_url"`
			APIKey            *string  `json:"api_key"`
			RequestsPerSecond *float64 `json:"requests_per_second"`
		} `json:"networks"`
		TxLimit               *int    `json:"tx_limit"`
		RequestTimeoutSeconds *int    `json:"request_timeout_seconds"`
		DateLayout            *string `json:"date_layout"`
		TimeZone              *string `json:"time_zone"`
		Server                struct {
			Host *string `json:"host"`
			Port *int    `json:"port"`
		} `json:"server"`
		LogLevel *string `json:"log_level"`
		LogFile  *string `json:"log_file"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Config{}, err
	}

	cfg := Default()
	for name, nc := range raw.Networks {
		n, err := network.Parse(name)
		if err != nil {
			return Config{}, err
		}
		cur := cfg.Networks[n]
		if nc.APIURL != nil {
			cur.APIURL = *nc.APIURL
		}
		if nc.ExplorerURL != nil {
			cur.ExplorerURL = *nc.ExplorerURL
		}
		if nc.APIKey != nil {
			cur.APIKey = *nc.APIKey
		}
		if nc.RequestsPerSecond != nil {
			cur.RequestsPerSecond = *nc.RequestsPerSecond
		}
		cfg.Networks[n] = cur
	}
	if raw.TxLimit != nil {
		cfg.TxLimit = *raw.TxLimit
	}
	if raw.RequestTimeoutSeconds != nil {
		cfg.RequestTimeoutSeconds = *raw.RequestTimeoutSeconds
	}
	if raw.DateLayout != nil {
		cfg.DateLayout = *raw.DateLayout
	}
	if raw.TimeZone != nil {
		cfg.TimeZone = *raw.TimeZone
	}
	if raw.Server.Host != nil {
		cfg.Server.Host = *raw.Server.Host
	}
	if raw.Server.Port != nil {
		cfg.Server.Port = *raw.Server.Port
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}
	return cfg, nil
}

// loadEnv applies environment overrides. API keys are usually supplied this way.
func (c *Config) loadEnv() {
	for _, n := range network.All {
		if key := os.Getenv(n.APIKeyEnv()); key != "" {
			nc := c.Networks[n]
			nc.APIKey = key
			c.Networks[n] = nc
		}
	}
	if host := os.Getenv("EVMSCAN_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("EVMSCAN_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if level := os.Getenv("EVMSCAN_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
}

// Network returns the settings for n, falling back to the built-in endpoints.
func (c Config) Network(n network.Network) NetworkConfig {
	nc, ok := c.Networks[n]
	if !ok {
		nc = NetworkConfig{}
	}
	if nc.APIURL == "" {
		nc.APIURL = n.DefaultAPIURL()
	}
	if nc.ExplorerURL == "" {
		nc.ExplorerURL = n.DefaultExplorerURL()
	}
	if nc.RequestsPerSecond <= 0 {
		nc.RequestsPerSecond = DefaultRequestsPerSecond
	}
	return nc
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return DefaultRequestTimeout * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Location resolves TimeZone. Unknown zones fall back to local time.
func (c Config) Location() *time.Location {
	if c.TimeZone == "" || strings.EqualFold(c.TimeZone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports every structural problem found.
func (c Config) Validate() []error {
	var errs []error
	if c.TxLimit <= 0 {
		errs = append(errs, errors.New("tx_limit must be positive"))
	}
	if c.DateLayout == "" {
		errs = append(errs, errors.New("date_layout is empty"))
	}
	if c.TimeZone != "" && !strings.EqualFold(c.TimeZone, "local") {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("time_zone: %w", err))
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server port %d out of range", c.Server.Port))
	}
	for _, n := range network.All {
		nc := c.Network(n)
		if !strings.HasPrefix(nc.APIURL, "http") {
			errs = append(errs, fmt.Errorf("network %s: api_url %q is not an http url", n, nc.APIURL))
		}
		if !strings.HasPrefix(nc.ExplorerURL, "http") {
			errs = append(errs, fmt.Errorf("network %s: explorer_url %q is not an http url", n, nc.ExplorerURL))
		}
	}
	return errs
}
