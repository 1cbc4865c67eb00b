package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetcal/internal/agenda"
	"meetcal/internal/apperr"
)

func TestLoadWritesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadPartialConfigIsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("calendar_file: /tmp/work.ics\nlook_ahead_minutes: 15\noutput: WAYBAR\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/work.ics", cfg.CalendarFile)
	assert.Equal(t, 15, cfg.LookAheadMinutes)
	assert.Equal(t, DefaultPopupLeadSeconds, cfg.PopupLeadSeconds)
	assert.Equal(t, "waybar", cfg.Output)
	assert.Equal(t, DefaultFreeGlyph, cfg.FreeGlyph)
	assert.Equal(t, DefaultWatchSchedule, cfg.WatchSchedule)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("look_ahead_minutes: [oops\n"), 0o600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Equal(t, apperr.CategoryConfig, apperr.CategoryOf(err))
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestNormalizeRepairsValues(t *testing.T) {
	cfg := &Config{LookAheadMinutes: -3, PopupLeadSeconds: -1, Output: "html"}

	cfg.Normalize()

	assert.Equal(t, DefaultLookAheadMinutes, cfg.LookAheadMinutes)
	assert.Equal(t, DefaultPopupLeadSeconds, cfg.PopupLeadSeconds)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, "none", cfg.Notify)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "utc", mutate: func(c *Config) { c.Timezone = "UTC" }},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad notifier", mutate: func(c *Config) { c.Notify = "pager" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.CategoryConfig, apperr.CategoryOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestSettings(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = "waybar"
	cfg.LookAheadMinutes = 5

	s := cfg.Settings()

	assert.Equal(t, agenda.Settings{
		LookAheadMinutes: 5,
		PopupLeadSeconds: DefaultPopupLeadSeconds,
		FreeGlyph:        DefaultFreeGlyph,
		MeetingGlyph:     DefaultMeetingGlyph,
		TimeFormat:       DefaultTimeFormat,
		Output:           agenda.OutputWaybar,
	}, s)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cal.ics"), ExpandHome("~/cal.ics"))
	assert.Equal(t, "/abs/cal.ics", ExpandHome("/abs/cal.ics"))
	assert.Equal(t, "~user/cal.ics", ExpandHome("~user/cal.ics"))
}

// Whatever the offset between ticks and a meeting start, one tick of the
// default schedule has to see the start (lead, lead+10) seconds away.
func TestDefaultWatchScheduleHitsPopupWindow(t *testing.T) {
	sched, err := cron.ParseStandard(DefaultWatchSchedule)
	require.NoError(t, err)

	t0 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	interval := int(sched.Next(t0).Sub(t0) / time.Second)
	require.Positive(t, interval)

	for phase := 0; phase < interval; phase++ {
		hit := false
		for s := DefaultPopupLeadSeconds + 1; s < DefaultPopupLeadSeconds+10; s++ {
			if s%interval == phase {
				hit = true
				break
			}
		}
		assert.True(t, hit, "phase %d of %ds never lands in the popup window", phase, interval)
	}
}
