package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitStructuredWriter_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	InitStructuredWriter("production", "angple-notes", &buf)

	Info("connected to %s", "mysql")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "angple-notes", entry["service"])
	assert.Equal(t, "connected to mysql", entry["message"])
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitStructuredWriter("production", "angple-notes", &buf)

	l := WithRequestID("abc123")
	l.Warn().Msg("slow")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc123", entry["request_id"])
	assert.Equal(t, "warn", entry["level"])
}
