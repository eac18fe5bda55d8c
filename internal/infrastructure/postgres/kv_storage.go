// Package postgres implementa fiber.Storage sobre una tabla clave-valor de PostgreSQL (pgx).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ fiber.Storage = (*KVStorage)(nil)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS kv_entries (
	k          TEXT PRIMARY KEY,
	v          BYTEA NOT NULL,
	expires_at TIMESTAMPTZ NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertSQL = `
INSERT INTO kv_entries (k, v, expires_at, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, expires_at = EXCLUDED.expires_at, updated_at = now()`

// KVStorage implementa fiber.Storage con un pool pgx.
type KVStorage struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewKVStorage crea la tabla si no existe y devuelve el almacenamiento.
func NewKVStorage(ctx context.Context, pool *pgxpool.Pool) (*KVStorage, error) {
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		return nil, fmt.Errorf("crear tabla kv_entries: %w", err)
	}
	return &KVStorage{pool: pool, timeout: 10 * time.Second}, nil
}

func (s *KVStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get devuelve (nil, nil) si la clave no existe o expiró.
func (s *KVStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	var (
		val       []byte
		expiresAt *time.Time
	)
	err := s.pool.QueryRow(ctx, `SELECT v, expires_at FROM kv_entries WHERE k = $1`, key).Scan(&val, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	if expiresAt != nil && time.Now().After(*expiresAt) {
		return nil, nil
	}
	return val, nil
}

// Set hace upsert del valor.
func (s *KVStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.pool.Exec(ctx, upsertSQL, key, val, expiry(exp)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete elimina la clave.
func (s *KVStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_entries WHERE k = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Reset vacía la tabla.
func (s *KVStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()
	if _, err := s.pool.Exec(ctx, `DELETE FROM kv_entries`); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

// Close cierra el pool.
func (s *KVStorage) Close() error {
	s.pool.Close()
	return nil
}

func expiry(exp time.Duration) *time.Time {
	if exp <= 0 {
		return nil
	}
	t := time.Now().Add(exp)
	return &t
}
