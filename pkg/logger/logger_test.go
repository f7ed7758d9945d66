package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_NamedAddsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "info").Named("auth")

	l.Info().Str("email", "a@b.com").Msg("login")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "auth", entry["component"])
	assert.Equal(t, "login", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "warn")

	l.Debug().Msg("hidden")
	l.Info().Msg("hidden too")

	assert.Empty(t, buf.String())
}
