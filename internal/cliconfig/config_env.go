package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (MOTIONPANEL_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", os.Getenv("MOTIONPANEL_HOST"), &cfg.Host)
	s.setString("transport", os.Getenv("MOTIONPANEL_TRANSPORT"), &cfg.Transport)
	s.setString("serial-port", os.Getenv("MOTIONPANEL_SERIAL_PORT"), &cfg.SerialPort)
	s.setString("workbook", os.Getenv("MOTIONPANEL_WORKBOOK"), &cfg.Workbook)
	s.setString("sheet", os.Getenv("MOTIONPANEL_SHEET"), &cfg.Sheet)
	s.setString("state-dir", os.Getenv("MOTIONPANEL_STATE_DIR"), &cfg.StateDir)
	s.setString("journal", os.Getenv("MOTIONPANEL_JOURNAL_PATH"), &cfg.JournalPath)
	s.setString("log-level", os.Getenv("MOTIONPANEL_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv("MOTIONPANEL_TIMEOUT"), &cfg.Timeout); err != nil {
		return err
	}

	if err := s.setIntFromString("port", os.Getenv("MOTIONPANEL_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("baud", os.Getenv("MOTIONPANEL_BAUD_RATE"), &cfg.BaudRate); err != nil {
		return err
	}

	if err := s.setBoolFromString("watch", os.Getenv("MOTIONPANEL_WATCH"), &cfg.Watch); err != nil {
		return err
	}
	if err := s.setBoolFromString("no-journal", os.Getenv("MOTIONPANEL_NO_JOURNAL"), &cfg.NoJournal); err != nil {
		return err
	}

	return nil
}
