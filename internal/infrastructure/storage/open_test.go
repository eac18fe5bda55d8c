package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	memstorage "github.com/gofiber/storage/memory/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shop-erp/internal/infrastructure/storage"
	"github.com/jhoicas/shop-erp/pkg/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}
	backend, err := storage.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer backend.Close()

	_, ok := backend.(*memstorage.Storage)
	assert.True(t, ok, "el driver memory debe usar el storage en memoria de fiber")
}

func TestOpenStore_SQLiteCargaColecciones(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "shop.db"),
		Prefix:     "test",
	}}
	store, err := storage.OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.False(t, store.IsSeeded(), "una base nueva no tiene datos de demostración")
}

func TestOpen_DriverDesconocido(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "mongo"}}
	_, err := storage.Open(context.Background(), cfg)
	assert.Error(t, err)
}
