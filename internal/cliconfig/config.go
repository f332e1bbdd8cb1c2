package cliconfig

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Defaults for the board's access-point network.
const (
	DefaultHost     = "192.168.4.1"
	DefaultPort     = 8888
	DefaultTimeout  = 3 * time.Second
	DefaultBaudRate = 115200
)

// Transport names.
const (
	TransportUDP    = "udp"
	TransportSerial = "serial"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error", "disabled"}

// Config holds CLI configuration for motionpanel.
type Config struct {
	Host    string
	Port    int
	Timeout time.Duration

	Transport  string
	SerialPort string
	BaudRate   int

	Workbook string
	Sheet    string
	Watch    bool

	StateDir    string
	JournalPath string
	NoJournal   bool

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Host:      DefaultHost,
		Port:      DefaultPort,
		Timeout:   DefaultTimeout,
		Transport: TransportUDP,
		BaudRate:  DefaultBaudRate,
		Watch:     true,
		StateDir:  "", // Derived from the home directory during Validate
		LogLevel:  "info",
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	c.Transport = strings.ToLower(strings.TrimSpace(c.Transport))
	switch c.Transport {
	case TransportUDP:
		if c.Host == "" {
			return fmt.Errorf("host is required for udp transport")
		}
		if c.Port <= 0 || c.Port > 65535 {
			return fmt.Errorf("port %d out of range", c.Port)
		}
	case TransportSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("serial-port is required for serial transport")
		}
		if c.BaudRate <= 0 {
			return fmt.Errorf("baud rate must be positive")
		}
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportUDP, TransportSerial)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if !validLogLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if c.StateDir == "" {
		if h, err := os.UserHomeDir(); err == nil {
			c.StateDir = filepath.Join(h, ".motionpanel")
		} else {
			c.StateDir = ".motionpanel"
		}
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(c.StateDir, "journal.db")
	}

	return nil
}

// Target describes where commands go, for logs and the state file.
func (c *Config) Target() string {
	if c.Transport == TransportSerial {
		return c.SerialPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func validLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool with strconv.ParseBool and sets
// the destination if valid.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = b
	return nil
}
