package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { _ = Setup(DefaultConfig()) })

	require.NoError(t, Setup(LogConfig{Level: "debug", Format: "json", Output: filepath.Join(t.TempDir(), "app.log")}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.Error(t, Setup(LogConfig{Level: "loud"}))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).With().Str("run_id", "r1").Logger()

	ctx := ToContext(context.Background(), l)
	log := FromContext(ctx, "pipeline")
	log.Info().Msg("hello")

	var line map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "r1", line["run_id"])
	assert.Equal(t, "pipeline", line["component"])
	assert.Equal(t, "hello", line["message"])
}

func TestFromContext_Fallback(t *testing.T) {
	l := FromContext(context.Background(), "render")
	assert.NotEqual(t, zerolog.Disabled, l.GetLevel())
}
