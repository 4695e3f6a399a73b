package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "json").With("component", "mrs")

	log.Info("rental created", map[string]interface{}{
		"rental_id": "42",
		"days":      3,
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "rental created", entry["message"])
	assert.Equal(t, "mrs", entry["component"])
	assert.Equal(t, "42", entry["rental_id"])
	assert.Equal(t, float64(3), entry["days"])
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"unknown": zerolog.InfoLevel,
	}

	for in, expected := range tests {
		assert.Equal(t, expected, parseLevel(in), in)
	}
}

func TestOpenOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrs.log")

	w := openOutput(path)
	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestNewNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNoop().With("k", "v").Error("ignored", map[string]interface{}{"a": 1})
	})
}
