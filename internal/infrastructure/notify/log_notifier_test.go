package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/internal/infrastructure/notify"
	"github.com/jhoicas/shop-erp/pkg/logger"
)

func TestLogNotifier_NivelSegunAviso(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(logger.New(logger.Config{Env: "test", Level: "debug", Output: &buf}))

	n.Notify(context.Background(), ports.LevelWarning, "stock recortado")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "warn", ev["level"])
	assert.Equal(t, "warning", ev["notification"])
	assert.Equal(t, "stock recortado", ev["message"])
}

func TestLogNotifier_SuccessSaleComoInfo(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(logger.New(logger.Config{Level: "info", Output: &buf}))

	n.Notify(context.Background(), ports.LevelSuccess, "venta registrada")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "info", ev["level"])
}
