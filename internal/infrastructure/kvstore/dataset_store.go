package kvstore

import (
	"context"
	"time"

	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

var _ backup.DataStore = (*Store)(nil)

// Snapshot copia el estado confirmado completo.
func (s *Store) Snapshot(_ context.Context) (*backup.Dataset, error) {
	var out *backup.Dataset
	s.view(func(d *dataset) {
		settings := d.getSettings()
		out = &backup.Dataset{
			AppSettings: &settings,
			Products:    d.listProducts(),
			Customers:   d.listCustomers(),
			Sales:       d.listSales(),
			Movements:   d.allMovements(),
			ExportedAt:  time.Now().UTC(),
			AppVersion:  backup.AppVersion,
		}
	})
	return out, nil
}

// Replace vacía las colecciones y carga data en una sola transacción.
// La secuencia del libro se conserva; los movimientos sin Seq se numeran en orden.
// Los datos importados cuentan como sembrados: la demostración no se vuelve a cargar encima.
func (s *Store) Replace(ctx context.Context, data *backup.Dataset) error {
	return s.Run(ctx, func(tx *Tx) error {
		tx.clear()
		tx.SetSeeded(true)
		for _, p := range data.Products {
			tx.data.products = append(tx.data.products, p.Clone())
		}
		for _, c := range data.Customers {
			cc := *c
			tx.data.customers = append(tx.data.customers, &cc)
		}
		for _, sale := range data.Sales {
			tx.data.sales = append(tx.data.sales, sale.Clone())
		}
		movs := make([]*entity.StockMovement, 0, len(data.Movements))
		for _, m := range data.Movements {
			mm := *m
			movs = append(movs, &mm)
		}
		tx.data.movements = normalizeSeq(movs)
		if n := len(tx.data.movements); n > 0 {
			tx.data.nextSeq = tx.data.movements[n-1].Seq + 1
		}
		if data.AppSettings != nil {
			tx.saveSettings(*data.AppSettings)
		}
		return nil
	})
}

// Reset vacía las cuatro colecciones y quita la marca de sembrado.
// La configuración de la tienda se conserva.
func (s *Store) Reset(ctx context.Context) error {
	return s.Run(ctx, func(tx *Tx) error {
		tx.clear()
		return nil
	})
}

// IsSeeded indica si ya se cargaron los datos de demostración.
func (s *Store) IsSeeded() (seeded bool) {
	s.view(func(d *dataset) { seeded = d.seeded })
	return seeded
}

// MarkSeeded deja constancia de que los datos de demostración se cargaron.
func (s *Store) MarkSeeded(ctx context.Context) error {
	return s.Run(ctx, func(tx *Tx) error {
		tx.SetSeeded(true)
		return nil
	})
}
