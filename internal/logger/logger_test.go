package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithStoreKey(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	var buf bytes.Buffer
	SetOutput(&buf)

	log := WithStoreKey("record-store", "invoice_app_saved_bills")
	log.Warn().Msg("corrupt")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "record-store", entry["component"])
	assert.Equal(t, "invoice_app_saved_bills", entry["store_key"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "corrupt", entry["message"])
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Level = "loud"
	assert.Error(t, Setup(cfg))
}
