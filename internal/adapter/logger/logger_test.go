package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/ordertaker/internal/adapter/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerWritesJSONEntries(t *testing.T) {
	var buf bytes.Buffer
	lgr := logger.NewWithWriter("api", "info", &buf)

	lgr.Info("order_saved", "Order saved", "req-1", map[string]interface{}{"order_id": "ORDER-20260101-0001"})
	lgr.Error("import_failed", "Import failed", "", nil, errors.New("boom"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "info", entries[0]["level"])
	assert.Equal(t, "api", entries[0]["service"])
	assert.Equal(t, "order_saved", entries[0]["action"])
	assert.Equal(t, "Order saved", entries[0]["message"])
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Contains(t, entries[0], "timestamp")
	details, ok := entries[0]["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ORDER-20260101-0001", details["order_id"])

	assert.Equal(t, "error", entries[1]["level"])
	errInfo, ok := entries[1]["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "boom", errInfo["msg"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	lgr := logger.NewWithWriter("cli", "warn", &buf)

	lgr.Debug("noise", "dropped", "", nil)
	lgr.Info("noise", "dropped", "", nil)
	lgr.Warn("rows_rejected", "kept", "", nil)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "warning", entries[0]["level"])
}

func TestErrorStackFromWrappedError(t *testing.T) {
	var buf bytes.Buffer
	lgr := logger.NewWithWriter("test", "info", &buf)

	err := pkgerrors.Wrap(errors.New("disk full"), "failed to write bow_momentum_orders")
	lgr.Error("order_save_failed", "Failed to save order", "ORDER-20260101-0001", nil, err)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	errInfo, ok := entries[0]["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "failed to write bow_momentum_orders: disk full", errInfo["msg"])
	assert.Contains(t, errInfo["stack"], "TestErrorStackFromWrappedError")
}
