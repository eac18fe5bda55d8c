// Package storage elige el almacenamiento clave-valor configurado.
package storage

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	memstorage "github.com/gofiber/storage/memory/v2"

	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/postgres"
	"github.com/jhoicas/shop-erp/internal/infrastructure/redisstore"
	"github.com/jhoicas/shop-erp/internal/infrastructure/sqlite"
	"github.com/jhoicas/shop-erp/pkg/config"
)

// Open abre el backend según cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (fiber.Storage, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath, cfg.Storage.Verbose)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		s, err := postgres.NewKVStorage(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		return redisstore.Open(cfg.Redis)
	case config.DriverMemory:
		return memstorage.New(), nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
}

// OpenStore abre el backend y carga las colecciones.
func OpenStore(ctx context.Context, cfg *config.Config) (*kvstore.Store, error) {
	backend, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := kvstore.Open(backend, cfg.Storage.Prefix)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("cargar colecciones: %w", err)
	}
	return store, nil
}
