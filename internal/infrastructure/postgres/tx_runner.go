package postgres

import (
	"fmt"

	"github.com/jhoicas/shop-erp/internal/infrastructure/kvstore"
)

// Ensure KVStorage applies the store's writes in one PostgreSQL transaction.
var _ kvstore.Batcher = (*KVStorage)(nil)

// ApplyBatch escribe todas las claves en una sola transacción: o quedan todas o ninguna.
func (s *KVStorage) ApplyBatch(ops []kvstore.Op) error {
	ctx, cancel := s.ctx()
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, op := range ops {
		if op.Value == nil {
			_, err = tx.Exec(ctx, `DELETE FROM kv_entries WHERE k = $1`, op.Key)
		} else {
			_, err = tx.Exec(ctx, upsertSQL, op.Key, op.Value, nil)
		}
		if err != nil {
			return fmt.Errorf("escribir %s: %w", op.Key, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
