package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/sqlite"
)

// setupTestStorage abre una base SQLite en memoria.
func setupTestStorage(t *testing.T) *sqlite.KVStorage {
	t.Helper()
	s, err := sqlite.Open(":memory:", false)
	require.NoError(t, err, "debe abrirse la base en memoria")
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestKVStorage_SetGetDelete(t *testing.T) {
	s := setupTestStorage(t)

	got, err := s.Get("nada")
	require.NoError(t, err)
	assert.Nil(t, got, "clave inexistente devuelve nil")

	require.NoError(t, s.Set("k", []byte("v1"), 0))
	require.NoError(t, s.Set("k", []byte("v2"), 0), "Set sobre clave existente es upsert")
	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, s.Delete("k"))
	got, err = s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestKVStorage_Expiracion(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Set("temp", []byte("x"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	got, err := s.Get("temp")
	require.NoError(t, err)
	assert.Nil(t, got, "una clave expirada no se devuelve")
}

func TestKVStorage_Reset(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Reset())
	a, _ := s.Get("a")
	b, _ := s.Get("b")
	assert.Nil(t, a)
	assert.Nil(t, b)
}

// El Store de colecciones funciona igual sobre SQLite que en memoria.
func TestKVStorage_ComoBackendDelStore(t *testing.T) {
	backend := setupTestStorage(t)
	store, err := kvstore.Open(backend, "test")
	require.NoError(t, err)

	settings := kvstore.NewSettingsRepository(store)
	cfg, err := settings.Get()
	require.NoError(t, err)
	cfg.LowStockThreshold = 9
	require.NoError(t, settings.Save(cfg))

	reopened, err := kvstore.Open(backend, "test")
	require.NoError(t, err)
	got, err := kvstore.NewSettingsRepository(reopened).Get()
	require.NoError(t, err)
	assert.Equal(t, 9, got.LowStockThreshold)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escritura por lotes
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyBatch_EscribeYBorraJuntos(t *testing.T) {
	s := setupTestStorage(t)
	require.NoError(t, s.Set("viejo", []byte("1"), 0))

	err := s.ApplyBatch([]kvstore.Op{
		{Key: "products", Value: []byte(`[]`)},
		{Key: "sales", Value: []byte(`[{"id":"s1"}]`)},
		{Key: "viejo", Value: nil},
	})
	require.NoError(t, err)

	products, _ := s.Get("products")
	sales, _ := s.Get("sales")
	viejo, _ := s.Get("viejo")
	assert.Equal(t, []byte(`[]`), products)
	assert.Equal(t, []byte(`[{"id":"s1"}]`), sales)
	assert.Nil(t, viejo, "Value nil borra la clave")
}

func TestApplyBatch_FalloNoDejaEscriturasParciales(t *testing.T) {
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	s, err := sqlite.New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Set("products", []byte("antes"), 0))
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("falla_sales", func(tx *gorm.DB) {
		if e, ok := tx.Statement.Dest.(*sqlite.Entry); ok && e.Key == "sales" {
			_ = tx.AddError(errors.New("disco lleno"))
		}
	}))

	err = s.ApplyBatch([]kvstore.Op{
		{Key: "products", Value: []byte("despues")},
		{Key: "sales", Value: []byte("[]")},
	})
	require.Error(t, err)

	got, err := s.Get("products")
	require.NoError(t, err)
	assert.Equal(t, []byte("antes"), got, "la primera escritura se deshace con la transacción")
	sales, _ := s.Get("sales")
	assert.Nil(t, sales)
}
