package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meetcal/internal/apperr"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvCalendarFile, "/srv/team.ics")
	t.Setenv(EnvLookAheadMinutes, "3")
	t.Setenv(EnvPopupLeadSeconds, "45")
	t.Setenv(EnvOutput, "waybar")
	t.Setenv(EnvLogLevel, "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "/srv/team.ics", cfg.CalendarFile)
	assert.Equal(t, 3, cfg.LookAheadMinutes)
	assert.Equal(t, 45, cfg.PopupLeadSeconds)
	assert.Equal(t, "waybar", cfg.Output)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestApplyEnvUnsetKeepsConfig(t *testing.T) {
	t.Setenv(EnvCalendarFile, "")
	t.Setenv(EnvLookAheadMinutes, "")

	cfg := DefaultConfig()
	cfg.CalendarFile = "/home/me/cal.ics"
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "/home/me/cal.ics", cfg.CalendarFile)
	assert.Equal(t, DefaultLookAheadMinutes, cfg.LookAheadMinutes)
}

func TestApplyEnvRejectsNonInteger(t *testing.T) {
	t.Setenv(EnvLookAheadMinutes, "ten")

	err := DefaultConfig().ApplyEnv()

	require.Error(t, err)
	assert.Equal(t, apperr.CategoryConfig, apperr.CategoryOf(err))
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meetcal.env")
	require.NoError(t, os.WriteFile(path, []byte(EnvPopupLeadSeconds+"=33\n"), 0o600))
	t.Setenv(EnvPopupLeadSeconds, "")
	require.NoError(t, os.Unsetenv(EnvPopupLeadSeconds))

	require.NoError(t, LoadEnv(path))

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 33, cfg.PopupLeadSeconds)
}

func TestLoadEnvDefaultFileMayBeAbsent(t *testing.T) {
	t.Chdir(t.TempDir())

	assert.NoError(t, LoadEnv())
}

func TestLoadEnvNamedFileMustExist(t *testing.T) {
	err := LoadEnv(filepath.Join(t.TempDir(), "absent.env"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, apperr.CategoryConfig, apperr.CategoryOf(err))
}
