package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"video_search_web/src/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(model.LogConfig{Level: "loud", Output: "stdout"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestInitLogger_FileOutput(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	path := filepath.Join(t.TempDir(), "logs", "app.log")
	err := InitLogger(model.LogConfig{Level: "debug", Format: "json", Output: "file", FilePath: path})
	require.NoError(t, err)

	Info().Str("query", "person").Msg("search issued")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"query":"person"`)
	assert.Contains(t, string(data), "Logger initialized successfully")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("json", &buf)
	l.Info().Str("component", "search").Msg("hello")

	assert.Contains(t, buf.String(), `"component":"search"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestComponent_TagsChildLogger(t *testing.T) {
	prev := Logger
	defer func() { Logger = prev }()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	Logger = New("json", &buf)

	l := Component("http")
	l.Warn().Msg("tls handshake error")
	Debug().Msg("debug line")

	assert.Contains(t, buf.String(), `"component":"http"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "debug line")
}
