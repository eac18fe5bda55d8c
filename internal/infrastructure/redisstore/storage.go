// Package redisstore abre el almacenamiento clave-valor del driver "redis".
package redisstore

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/redis/v3"

	"github.com/jhoicas/shop-erp/pkg/config"
)

// Open comprueba que Redis responda y crea el storage.
// redis.New entra en pánico si no puede conectar; se verifica antes con un dial.
func Open(cfg config.RedisConfig) (storage fiber.Storage, err error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, 3*time.Second)
	if err != nil {
		return nil, fmt.Errorf("redis no disponible en %s: %w", addr, err)
	}
	_ = conn.Close()

	defer func() {
		if r := recover(); r != nil {
			storage, err = nil, fmt.Errorf("redis: %v", r)
		}
	}()
	return redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		Database: cfg.DB,
		PoolSize: cfg.PoolSize,
	}), nil
}
