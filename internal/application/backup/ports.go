package backup

import (
	"context"
	"time"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// AppVersion identifica el formato de exportación.
const AppVersion = "shop-erp/1.0"

// Dataset es la exportación completa: configuración más las cuatro colecciones.
type Dataset struct {
	AppSettings *entity.Settings        `json:"appSettings,omitempty"`
	Products    []*entity.Product       `json:"products"`
	Customers   []*entity.Customer      `json:"customers"`
	Sales       []*entity.Sale          `json:"sales"`
	Movements   []*entity.StockMovement `json:"stockMovements"`
	ExportedAt  time.Time               `json:"exportedAt"`
	AppVersion  string                  `json:"appVersion"`
}

// DataStore es el puerto hacia el almacenamiento para operaciones sobre todo el estado.
type DataStore interface {
	Snapshot(ctx context.Context) (*Dataset, error)
	// Replace sustituye todas las colecciones en una sola transacción.
	Replace(ctx context.Context, data *Dataset) error
	// Reset vacía las cuatro colecciones y la marca de datos de demostración.
	Reset(ctx context.Context) error
	IsSeeded() bool
	MarkSeeded(ctx context.Context) error
}
