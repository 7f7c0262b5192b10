package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"DEBUG", LevelDebug, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	l := Logger("test/component")

	var buf bytes.Buffer
	Setup(LevelDebug, FormatJSON, &buf)
	l.Debug("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, `"component":"test/component"`)
	assert.Contains(t, out, `"msg":"hello"`)
	assert.Equal(t, "test/component", l.Component())
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(LevelWarn, FormatText, &buf)
	Logger("x").Info("dropped")
	assert.Empty(t, buf.String())

	Logger("x").Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}
