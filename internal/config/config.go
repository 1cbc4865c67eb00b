package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"meetcal/internal/agenda"
	"meetcal/internal/apperr"
	appLog "meetcal/internal/log"
	"meetcal/internal/notify"
)

const (
	DefaultCalendarFile     = "~/.local/share/evolution/calendar/system/calendar.ics"
	DefaultLookAheadMinutes = 10
	DefaultPopupLeadSeconds = 20
	DefaultFreeGlyph        = "󱁕"
	DefaultMeetingGlyph     = "󰤙"
	DefaultTimeFormat       = "15:04"

	// DefaultWatchSchedule ticks at half the popup window so every phase
	// lands at least one tick inside (lead, lead+10).
	DefaultWatchSchedule = "@every 5s"
)

// Config is the on-disk configuration. It is converted once into an
// agenda.Settings value before the pipeline runs.
type Config struct {
	// CalendarFile is the ICS file to read. A leading "~/" is expanded.
	CalendarFile string `yaml:"calendar_file" json:"calendar_file"`

	// LookAheadMinutes is how far ahead a meeting counts as imminent.
	LookAheadMinutes int `yaml:"look_ahead_minutes" json:"look_ahead_minutes"`

	// PopupLeadSeconds places the 10 second detail-block window:
	// it fires while the start is (lead, lead+10) seconds away.
	PopupLeadSeconds int `yaml:"popup_lead_seconds" json:"popup_lead_seconds"`

	FreeGlyph    string `yaml:"free_glyph" json:"free_glyph"`
	MeetingGlyph string `yaml:"meeting_glyph" json:"meeting_glyph"`

	// Timezone is an IANA name used for display and "end of day". Calendar
	// times without a TZID or 'Z' are read in this zone as well.
	// Empty means the host's local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// TimeFormat is a Go time layout for the start time in the status line.
	TimeFormat string `yaml:"time_format" json:"time_format"`

	// Output is "text" or "waybar".
	Output string `yaml:"output" json:"output"`

	// Notify is "none", "notify-send" or "zenity".
	Notify     string `yaml:"notify" json:"notify"`
	NotifyIcon string `yaml:"notify_icon,omitempty" json:"notify_icon,omitempty"`

	// LogLevel is "debug", "info" or "error". Logs always go to stderr.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// WatchSchedule is a cron spec used by --watch (e.g. "@every 5s").
	WatchSchedule string `yaml:"watch_schedule" json:"watch_schedule"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		CalendarFile:     DefaultCalendarFile,
		LookAheadMinutes: DefaultLookAheadMinutes,
		PopupLeadSeconds: DefaultPopupLeadSeconds,
		FreeGlyph:        DefaultFreeGlyph,
		MeetingGlyph:     DefaultMeetingGlyph,
		Timezone:         "",
		TimeFormat:       DefaultTimeFormat,
		Output:           string(agenda.OutputText),
		Notify:           notify.KindNone,
		LogLevel:         "info",
		WatchSchedule:    DefaultWatchSchedule,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/meetcal/config.yaml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "meetcal.yaml")
	}
	return filepath.Join(dir, "meetcal", "config.yaml")
}

// Normalize fills in missing/zero values so that partially-filled
// configs still behave.
func (c *Config) Normalize() {
	if c.CalendarFile == "" {
		c.CalendarFile = DefaultCalendarFile
	}
	if c.LookAheadMinutes <= 0 {
		c.LookAheadMinutes = DefaultLookAheadMinutes
	}
	if c.PopupLeadSeconds < 0 {
		c.PopupLeadSeconds = DefaultPopupLeadSeconds
	}
	if c.FreeGlyph == "" {
		c.FreeGlyph = DefaultFreeGlyph
	}
	if c.MeetingGlyph == "" {
		c.MeetingGlyph = DefaultMeetingGlyph
	}
	if c.TimeFormat == "" {
		c.TimeFormat = DefaultTimeFormat
	}
	switch agenda.Output(strings.ToLower(c.Output)) {
	case agenda.OutputText, agenda.OutputWaybar:
		c.Output = strings.ToLower(c.Output)
	default:
		c.Output = string(agenda.OutputText)
	}
	if c.Notify == "" {
		c.Notify = notify.KindNone
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.WatchSchedule == "" {
		c.WatchSchedule = DefaultWatchSchedule
	}
}

// Validate reports values Normalize cannot repair.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := appLog.ParseLevel(c.LogLevel); err != nil {
		return apperr.Config("invalid log_level", err)
	}
	if _, err := notify.New(c.Notify, c.NotifyIcon); err != nil {
		return apperr.Config("invalid notify", err)
	}
	return nil
}

// Location resolves Timezone, falling back to the host zone when empty.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, apperr.Config("invalid timezone "+c.Timezone, err)
	}
	return loc, nil
}

// CalendarPath returns CalendarFile with a leading "~/" expanded.
func (c *Config) CalendarPath() string {
	return ExpandHome(c.CalendarFile)
}

// Settings freezes the parts of the config the pipeline reads.
func (c *Config) Settings() agenda.Settings {
	return agenda.Settings{
		LookAheadMinutes: c.LookAheadMinutes,
		PopupLeadSeconds: c.PopupLeadSeconds,
		FreeGlyph:        c.FreeGlyph,
		MeetingGlyph:     c.MeetingGlyph,
		TimeFormat:       c.TimeFormat,
		Output:           agenda.Output(c.Output),
	}
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist, a default config is written with 0600
//     perms and returned.
//   - Otherwise the YAML is read, unmarshalled and normalized.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, apperr.Config("config path is empty", nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			appLog.Info("wrote default config", "path", path)
			return cfg, nil
		}
		return nil, apperr.Config("cannot read config "+path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperr.Config("cannot parse config "+path, err)
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes cfg to path atomically (temp file + rename), creating the
// parent directory with 0700 and leaving the file at 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return apperr.Config("config path is empty", nil)
	}
	if cfg == nil {
		return apperr.Config("config is nil", nil)
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".meetcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("install config %s: %w", path, err)
	}

	return nil
}
