package kvstore

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// Tx es una transacción en curso: lee y escribe sobre la copia del estado
// y anota qué claves hay que persistir.
type Tx struct {
	data  *dataset
	dirty map[string]bool
}

func (t *Tx) touch(name string) { t.dirty[name] = true }

// ── productos ─────────────────────────────────────────────────────────────────

func (d *dataset) productIndex(id string) int {
	for i, p := range d.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) getProduct(id string) *entity.Product {
	if i := d.productIndex(id); i >= 0 {
		return d.products[i].Clone()
	}
	return nil
}

func (d *dataset) getProductBySKU(sku string) *entity.Product {
	for _, p := range d.products {
		if sku != "" && p.SKU == sku {
			return p.Clone()
		}
	}
	return nil
}

func (d *dataset) listProducts() []*entity.Product {
	out := make([]*entity.Product, 0, len(d.products))
	for _, p := range d.products {
		out = append(out, p.Clone())
	}
	return out
}

func (t *Tx) createProduct(p *entity.Product) error {
	if p == nil || p.ID == "" {
		return domain.ErrInvalidInput
	}
	if t.data.productIndex(p.ID) >= 0 {
		return domain.ErrDuplicate
	}
	t.data.products = append(t.data.products, p.Clone())
	t.touch(KeyProducts)
	return nil
}

func (t *Tx) updateProduct(p *entity.Product) error {
	i := t.data.productIndex(p.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	t.data.products[i] = p.Clone()
	t.touch(KeyProducts)
	return nil
}

func (t *Tx) deleteProduct(id string) error {
	i := t.data.productIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	t.data.products = append(t.data.products[:i:i], t.data.products[i+1:]...)
	t.touch(KeyProducts)
	return nil
}

// ── movimientos ───────────────────────────────────────────────────────────────

func (t *Tx) appendMovement(m *entity.StockMovement) error {
	if m == nil || m.ProductID == "" || m.LocationID == "" || !entity.IsValidMovementType(m.Type) {
		return fmt.Errorf("movimiento inválido: %w", domain.ErrInvalidInput)
	}
	if m.NewQuantity < 0 || m.Shortfall < 0 {
		return fmt.Errorf("movimiento con cantidades negativas: %w", domain.ErrInvalidInput)
	}
	if m.ID == "" {
		m.ID = uuid.Must(uuid.NewV7()).String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.Seq = t.data.nextSeq
	t.data.nextSeq++
	stored := *m
	t.data.movements = append(t.data.movements, &stored)
	t.touch(KeyMovements)
	return nil
}

// newestFirst devuelve copias de los movimientos que cumplen el filtro, de más reciente a más antiguo.
func (d *dataset) newestFirst(f repository.MovementFilter) []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0)
	for i := len(d.movements) - 1; i >= 0; i-- {
		m := d.movements[i]
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.Timestamp.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Timestamp.After(*f.To) {
			continue
		}
		c := *m
		out = append(out, &c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (d *dataset) allMovements() []*entity.StockMovement {
	out := make([]*entity.StockMovement, 0, len(d.movements))
	for _, m := range d.movements {
		c := *m
		out = append(out, &c)
	}
	return out
}

// normalizeSeq ordena por Seq y numera los movimientos importados sin secuencia
// (en ese caso se respeta el orden del archivo).
func normalizeSeq(movs []*entity.StockMovement) []*entity.StockMovement {
	numbered := true
	for _, m := range movs {
		if m.Seq <= 0 {
			numbered = false
			break
		}
	}
	if numbered {
		sort.SliceStable(movs, func(i, j int) bool { return movs[i].Seq < movs[j].Seq })
	}
	var last int64
	for _, m := range movs {
		if m.Seq <= last {
			m.Seq = last + 1
		}
		last = m.Seq
	}
	return movs
}

// ── ventas ────────────────────────────────────────────────────────────────────

func (d *dataset) getSale(id string) *entity.Sale {
	for _, s := range d.sales {
		if s.ID == id {
			return s.Clone()
		}
	}
	return nil
}

func (d *dataset) listSales() []*entity.Sale {
	out := make([]*entity.Sale, 0, len(d.sales))
	for _, s := range d.sales {
		out = append(out, s.Clone())
	}
	return out
}

func (t *Tx) createSale(s *entity.Sale) error {
	if s == nil || s.ID == "" {
		return domain.ErrInvalidInput
	}
	if t.data.getSale(s.ID) != nil {
		return domain.ErrDuplicate
	}
	t.data.sales = append(t.data.sales, s.Clone())
	t.touch(KeySales)
	return nil
}

// ── clientes ──────────────────────────────────────────────────────────────────

func (d *dataset) customerIndex(id string) int {
	for i, c := range d.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (d *dataset) getCustomer(id string) *entity.Customer {
	if i := d.customerIndex(id); i >= 0 {
		c := *d.customers[i]
		return &c
	}
	return nil
}

func (d *dataset) listCustomers() []*entity.Customer {
	out := make([]*entity.Customer, 0, len(d.customers))
	for _, c := range d.customers {
		cc := *c
		out = append(out, &cc)
	}
	return out
}

func (t *Tx) createCustomer(c *entity.Customer) error {
	if c == nil || c.ID == "" {
		return domain.ErrInvalidInput
	}
	if t.data.customerIndex(c.ID) >= 0 {
		return domain.ErrDuplicate
	}
	cc := *c
	t.data.customers = append(t.data.customers, &cc)
	t.touch(KeyCustomers)
	return nil
}

func (t *Tx) updateCustomer(c *entity.Customer) error {
	i := t.data.customerIndex(c.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	cc := *c
	t.data.customers[i] = &cc
	t.touch(KeyCustomers)
	return nil
}

func (t *Tx) deleteCustomer(id string) error {
	i := t.data.customerIndex(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	t.data.customers = append(t.data.customers[:i:i], t.data.customers[i+1:]...)
	t.touch(KeyCustomers)
	return nil
}

// ── configuración y marcas ────────────────────────────────────────────────────

func (d *dataset) getSettings() entity.Settings {
	if d.settings == nil {
		return entity.DefaultSettings()
	}
	return *d.settings
}

func (t *Tx) saveSettings(s entity.Settings) {
	t.data.settings = &s
	t.touch(KeySettings)
}

// SetSeeded marca (o desmarca) que los datos de demostración ya se cargaron.
func (t *Tx) SetSeeded(v bool) {
	if t.data.seeded == v {
		return
	}
	t.data.seeded = v
	t.touch(KeySeeded)
}

// clear vacía las cuatro colecciones y la marca de datos de demostración.
func (t *Tx) clear() {
	t.data.products = nil
	t.data.movements = nil
	t.data.sales = nil
	t.data.customers = nil
	t.data.nextSeq = 1
	t.data.seeded = false
	for _, k := range []string{KeyProducts, KeyMovements, KeySales, KeyCustomers, KeySeeded} {
		t.touch(k)
	}
}
