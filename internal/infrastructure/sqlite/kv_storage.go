// Package sqlite implementa fiber.Storage sobre una tabla clave-valor en SQLite (GORM).
// Es el almacenamiento por defecto para una instalación local del punto de venta.
package sqlite

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
)

var (
	_ fiber.Storage   = (*KVStorage)(nil)
	_ kvstore.Batcher = (*KVStorage)(nil)
)

// Entry fila de la tabla kv_entries.
type Entry struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     []byte
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName nombre de la tabla.
func (Entry) TableName() string { return "kv_entries" }

// KVStorage implementa fiber.Storage con GORM.
type KVStorage struct {
	db *gorm.DB
}

// Open abre (o crea) la base SQLite en path y migra la tabla. ":memory:" crea una base efímera.
func Open(path string, verbose bool) (*KVStorage, error) {
	logLevel := logger.Silent
	if verbose {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir %s: %w", path, err)
	}
	if path == ":memory:" {
		// cada conexión nueva sería una base distinta
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sqlite: obtener sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db)
}

// New usa una conexión GORM existente y migra la tabla.
func New(db *gorm.DB) (*KVStorage, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("sqlite: migrar kv_entries: %w", err)
	}
	return &KVStorage{db: db}, nil
}

// Get devuelve (nil, nil) si la clave no existe o expiró.
func (s *KVStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var e Entry
	err := s.db.First(&e, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", key, err)
	}
	if e.ExpiresAt != nil && time.Now().After(*e.ExpiresAt) {
		return nil, nil
	}
	return e.Value, nil
}

// Set hace upsert del valor. exp > 0 fija una expiración.
func (s *KVStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	if err := upsert(s.db, key, val, exp); err != nil {
		return fmt.Errorf("sqlite: set %s: %w", key, err)
	}
	return nil
}

func upsert(db *gorm.DB, key string, val []byte, exp time.Duration) error {
	e := Entry{Key: key, Value: val, UpdatedAt: time.Now()}
	if exp > 0 {
		t := time.Now().Add(exp)
		e.ExpiresAt = &t
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&e).Error
}

// Delete elimina la clave (sin error si no existe).
func (s *KVStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.Delete(&Entry{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", key, err)
	}
	return nil
}

// ApplyBatch escribe todas las claves en una sola transacción: o quedan todas o ninguna.
func (s *KVStorage) ApplyBatch(ops []kvstore.Op) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			var err error
			if op.Value == nil {
				err = tx.Delete(&Entry{}, "key = ?", op.Key).Error
			} else {
				err = upsert(tx, op.Key, op.Value, 0)
			}
			if err != nil {
				return fmt.Errorf("sqlite: escribir %s: %w", op.Key, err)
			}
		}
		return nil
	})
}

// Reset elimina todas las claves.
func (s *KVStorage) Reset() error {
	if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("sqlite: reset: %w", err)
	}
	return nil
}

// Close cierra la conexión.
func (s *KVStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("sqlite: obtener sql.DB: %w", err)
	}
	return sqlDB.Close()
}
