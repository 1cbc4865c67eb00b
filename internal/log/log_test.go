package log

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, level Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(level)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestInfoFormatsKeyValues(t *testing.T) {
	buf := captureLogs(t, LevelInfo)

	Info("calendar loaded", "path", "/tmp/cal.ics", "events", 3)

	line := buf.String()
	assert.Contains(t, line, "[INFO] calendar loaded")
	assert.Contains(t, line, "path=/tmp/cal.ics")
	assert.Contains(t, line, "events=3")
}

func TestValuesWithSpacesAreQuoted(t *testing.T) {
	buf := captureLogs(t, LevelInfo)

	Info("selected", "summary", "Team sync")

	assert.Contains(t, buf.String(), `summary="Team sync"`)
}

func TestErrorPrependsErr(t *testing.T) {
	buf := captureLogs(t, LevelError)

	Error("load failed", errors.New("boom"), "path", "x.ics")

	assert.Contains(t, buf.String(), "[ERROR] load failed err=boom path=x.ics")
}

func TestLevelFiltering(t *testing.T) {
	buf := captureLogs(t, LevelError)

	Debug("hidden")
	Info("hidden too")
	assert.Empty(t, buf.String())

	SetLevel(LevelDebug)
	Debug("shown")
	assert.Contains(t, buf.String(), "[DEBUG] shown")
}

func TestOddKeyValueDropped(t *testing.T) {
	buf := captureLogs(t, LevelInfo)

	Info("msg", "a", 1, "dangling")

	assert.Contains(t, buf.String(), "msg a=1\n")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "debug", want: LevelDebug},
		{in: "INFO", want: LevelInfo},
		{in: "", want: LevelInfo},
		{in: " error ", want: LevelError},
		{in: "verbose", want: LevelInfo, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
