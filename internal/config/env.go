package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"meetcal/internal/apperr"
)

const (
	EnvCalendarFile     = "MEETCAL_CALENDAR_FILE"
	EnvLookAheadMinutes = "MEETCAL_LOOK_AHEAD_MINUTES"
	EnvPopupLeadSeconds = "MEETCAL_POPUP_LEAD_SECONDS"
	EnvOutput           = "MEETCAL_OUTPUT"
	EnvLogLevel         = "MEETCAL_LOG_LEVEL"
)

// LoadEnv loads dotenv files into the process environment without
// overriding variables that are already set. With no files it tries
// ./.env and a missing one is not an error. A named file must exist.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err == nil {
		return nil
	}
	if len(files) == 0 && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return apperr.Config("cannot load env file", err)
}

// ApplyEnv overrides c with any MEETCAL_* variables that are set.
func (c *Config) ApplyEnv() error {
	if v := getEnv(EnvCalendarFile, ""); v != "" {
		c.CalendarFile = v
	}
	if v := getEnv(EnvOutput, ""); v != "" {
		c.Output = v
	}
	if v := getEnv(EnvLogLevel, ""); v != "" {
		c.LogLevel = v
	}
	if err := envInt(EnvLookAheadMinutes, &c.LookAheadMinutes); err != nil {
		return err
	}
	if err := envInt(EnvPopupLeadSeconds, &c.PopupLeadSeconds); err != nil {
		return err
	}
	c.Normalize()
	return nil
}

func envInt(key string, dst *int) error {
	v := getEnv(key, "")
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return apperr.Config(key+" must be an integer", err)
	}
	*dst = n
	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}
