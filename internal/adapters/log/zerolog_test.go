package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/motionpanel/internal/ports"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	a := NewZerologAdapterWithLogger(zerolog.New(&buf))

	a.Warn("probe got no reply",
		ports.String("session", "abc"),
		ports.Int("attempt", 2),
		ports.Bool("connected", false),
		ports.Duration("timeout", 3*time.Second),
		ports.Err(errors.New("i/o timeout")),
		ports.Any("target", []string{"192.168.4.1", "8888"}))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "probe got no reply", got["message"])
	assert.Equal(t, "abc", got["session"])
	assert.Equal(t, float64(2), got["attempt"])
	assert.Equal(t, false, got["connected"])
	assert.Equal(t, "i/o timeout", got["error"])
	assert.Equal(t, []interface{}{"192.168.4.1", "8888"}, got["target"])
	assert.Contains(t, got, "timeout")
}

func TestNewConsoleLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewConsoleLogger(&buf, "WARN")
	require.NoError(t, err)

	a := NewZerologAdapterWithLogger(l)
	a.Info("hidden")
	a.Error("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")

	_, err = NewConsoleLogger(&buf, "loud")
	assert.Error(t, err)
}
