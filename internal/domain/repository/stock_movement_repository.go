package repository

import (
	"time"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// MovementFilter filtros opcionales para consultar el libro de movimientos.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       string
	From, To   *time.Time
	Limit      int
}

// StockMovementRepository es el libro de movimientos: solo admite agregar y consultar.
// Append asigna Seq (y ID/Timestamp si vienen vacíos). Las consultas devuelven
// los más recientes primero; All devuelve el libro completo en orden de Seq.
type StockMovementRepository interface {
	Append(movement *entity.StockMovement) error
	ListByProduct(productID string) ([]*entity.StockMovement, error)
	List(filter MovementFilter) ([]*entity.StockMovement, error)
	All() ([]*entity.StockMovement, error)
}
