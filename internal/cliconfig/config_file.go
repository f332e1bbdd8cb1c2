package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Timeout     string `toml:"timeout"`
	Transport   string `toml:"transport"`
	SerialPort  string `toml:"serial_port"`
	BaudRate    int    `toml:"baud_rate"`
	Workbook    string `toml:"workbook"`
	Sheet       string `toml:"sheet"`
	Watch       *bool  `toml:"watch"`
	StateDir    string `toml:"state_dir"`
	JournalPath string `toml:"journal_path"`
	NoJournal   *bool  `toml:"no_journal"`
	LogLevel    string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.motionpanel/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".motionpanel", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setString("transport", fc.Transport, &cfg.Transport)
	s.setString("serial-port", fc.SerialPort, &cfg.SerialPort)
	s.setString("workbook", fc.Workbook, &cfg.Workbook)
	s.setString("sheet", fc.Sheet, &cfg.Sheet)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)
	s.setString("journal", fc.JournalPath, &cfg.JournalPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.Timeout, &cfg.Timeout); err != nil {
		return err
	}

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("baud", fc.BaudRate, &cfg.BaudRate)

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("no-journal", fc.NoJournal, &cfg.NoJournal)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
