// Package checkout contiene el carrito del punto de venta y la orquestación del cobro:
// registrar la venta y descontar el stock en una sola transacción.
package checkout

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/sales"
)

// Cart es el carrito de una sesión. Vive solo en memoria.
//
// Estados: empty → building → checking_out → committed | failed.
// Mientras está en checking_out no admite cambios; failed conserva las líneas
// para reintentar el cobro.
type Cart struct {
	mu sync.Mutex

	state      string
	locationID string
	lines      []entity.CartLine
	discount   decimal.Decimal
	customerID *string
	notes      string
	lastError  string
}

// NewCart crea un carrito vacío en la ubicación indicada.
func NewCart(locationID string) *Cart {
	return &Cart{state: entity.CartEmpty, locationID: locationID, discount: decimal.Zero}
}

// Snapshot es una copia inmutable del carrito con sus totales.
type Snapshot struct {
	State              string
	LocationID         string
	Lines              []entity.CartLine
	DiscountPercentage decimal.Decimal
	CustomerID         *string
	Notes              string
	Totals             sales.Totals
	LastError          string
}

// ItemCount unidades en el carrito.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, l := range s.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) snapshot() Snapshot {
	s := Snapshot{
		State:              c.state,
		LocationID:         c.locationID,
		Lines:              append([]entity.CartLine(nil), c.lines...),
		DiscountPercentage: c.discount,
		Notes:              c.notes,
		LastError:          c.lastError,
	}
	if c.customerID != nil {
		id := *c.customerID
		s.CustomerID = &id
	}
	s.Totals = totals(c.lines, c.discount)
	return s
}

// totals reutiliza el cálculo de la venta; el descuento del carrito ya está validado.
func totals(lines []entity.CartLine, discount decimal.Decimal) sales.Totals {
	t, err := sales.ComputeTotals(saleItems(lines), discount)
	if err != nil {
		return sales.Totals{Subtotal: decimal.Zero, DiscountAmount: decimal.Zero, Total: decimal.Zero, EstimatedProfit: decimal.Zero}
	}
	return t
}

func saleItems(lines []entity.CartLine) []entity.SaleItem {
	items := make([]entity.SaleItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, entity.SaleItem{
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			SKU:             l.SKU,
			Quantity:        l.Quantity,
			UnitPriceAtSale: l.UnitPriceAtSale,
			BasePriceAtSale: l.BasePriceAtSale,
		})
	}
	return items
}

// editable rechaza cambios durante el cobro.
func (c *Cart) editable() error {
	if c.state == entity.CartCheckingOut {
		return domain.ErrCheckoutInProgress
	}
	return nil
}

// touch recalcula el estado tras una edición.
func (c *Cart) touch() {
	c.lastError = ""
	if len(c.lines) == 0 {
		c.state = entity.CartEmpty
		return
	}
	c.state = entity.CartBuilding
}

func (c *Cart) lineIndex(productID string) int {
	for i, l := range c.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
}

// addLine agrega una unidad de product con precios congelados al momento de agregar.
func (c *Cart) addLine(product *entity.Product) (string, error) {
	if err := c.editable(); err != nil {
		return "", err
	}
	available := product.StockAt(c.locationID)
	if available <= 0 {
		return "", fmt.Errorf("%s: %w", product.DisplayName(), domain.ErrOutOfStock)
	}
	if i := c.lineIndex(product.ID); i >= 0 {
		if c.lines[i].Quantity+1 > available {
			return "", fmt.Errorf("%s (máximo %d): %w", product.DisplayName(), available, domain.ErrStockLimitReached)
		}
		c.lines[i].Quantity++
		c.touch()
		return fmt.Sprintf("%s: %d en el carrito", product.DisplayName(), c.lines[i].Quantity), nil
	}
	c.lines = append(c.lines, entity.CartLine{
		ProductID:       product.ID,
		ProductName:     product.DisplayName(),
		SKU:             product.SKU,
		UnitPriceAtSale: product.SellingPrice,
		BasePriceAtSale: product.BasePrice,
		Quantity:        1,
	})
	c.touch()
	return fmt.Sprintf("%s agregado al carrito", product.DisplayName()), nil
}

// setQuantity fija la cantidad de una línea. 0 la quita; por encima de lo disponible se
// recorta y capped es true.
func (c *Cart) setQuantity(productID string, qty, available int) (capped bool, msg string, err error) {
	if err := c.editable(); err != nil {
		return false, "", err
	}
	if qty < 0 {
		return false, "", domain.ErrInvalidQuantity
	}
	i := c.lineIndex(productID)
	if i < 0 {
		return false, "", fmt.Errorf("producto %s no está en el carrito: %w", productID, domain.ErrNotFound)
	}
	name := c.lines[i].ProductName
	switch {
	case qty == 0:
		c.removeAt(i)
		msg = fmt.Sprintf("%s quitado del carrito", name)
	case qty > available && available <= 0:
		c.removeAt(i)
		capped = true
		msg = fmt.Sprintf("%s ya no tiene stock en esta ubicación y se quitó del carrito", name)
	case qty > available:
		c.lines[i].Quantity = available
		capped = true
		msg = fmt.Sprintf("Solo hay %d unidades de %s; se ajustó la cantidad", available, name)
	default:
		c.lines[i].Quantity = qty
		msg = fmt.Sprintf("%s: %d en el carrito", name, qty)
	}
	c.touch()
	return capped, msg, nil
}

func (c *Cart) removeLine(productID string) error {
	if err := c.editable(); err != nil {
		return err
	}
	i := c.lineIndex(productID)
	if i < 0 {
		return fmt.Errorf("producto %s no está en el carrito: %w", productID, domain.ErrNotFound)
	}
	c.removeAt(i)
	c.touch()
	return nil
}

// applyDiscount fija el porcentaje. Fuera de [0, 100] lo deja en 0 y devuelve error.
func (c *Cart) applyDiscount(pct decimal.Decimal) error {
	if err := c.editable(); err != nil {
		return err
	}
	if err := sales.ValidateDiscount(pct); err != nil {
		c.discount = decimal.Zero
		return err
	}
	c.discount = pct
	if c.state == entity.CartFailed || c.state == entity.CartCommitted {
		c.touch()
	}
	return nil
}

// setLocation cambia la ubicación y revisa cada línea contra el stock de la nueva:
// sin stock se quita, con menos stock se recorta. Devuelve los ajustes hechos.
func (c *Cart) setLocation(locationID string, availableAt func(productID string) int) ([]string, error) {
	if err := c.editable(); err != nil {
		return nil, err
	}
	c.locationID = locationID
	var adjustments []string
	kept := c.lines[:0:0]
	for _, l := range c.lines {
		available := availableAt(l.ProductID)
		switch {
		case available <= 0:
			adjustments = append(adjustments, fmt.Sprintf("%s no tiene stock en %s y se quitó", l.ProductName, locationID))
			continue
		case l.Quantity > available:
			adjustments = append(adjustments, fmt.Sprintf("%s: cantidad ajustada de %d a %d", l.ProductName, l.Quantity, available))
			l.Quantity = available
		}
		kept = append(kept, l)
	}
	c.lines = kept
	c.touch()
	return adjustments, nil
}

func (c *Cart) setCustomer(id *string) error {
	if err := c.editable(); err != nil {
		return err
	}
	if id == nil || *id == "" {
		c.customerID = nil
		return nil
	}
	v := *id
	c.customerID = &v
	return nil
}

func (c *Cart) setNotes(notes string) error {
	if err := c.editable(); err != nil {
		return err
	}
	c.notes = notes
	return nil
}

// reset vacía el carrito. La ubicación se conserva.
func (c *Cart) reset() {
	c.lines = nil
	c.discount = decimal.Zero
	c.customerID = nil
	c.notes = ""
	c.lastError = ""
	c.state = entity.CartEmpty
}

func (c *Cart) clear() error {
	if err := c.editable(); err != nil {
		return err
	}
	c.reset()
	return nil
}

// beginCheckout pasa a checking_out. Solo desde building o failed con al menos una línea.
func (c *Cart) beginCheckout() error {
	switch c.state {
	case entity.CartCheckingOut:
		return domain.ErrCheckoutInProgress
	case entity.CartBuilding, entity.CartFailed:
		if len(c.lines) == 0 {
			return domain.ErrEmptyCart
		}
	case entity.CartEmpty, entity.CartCommitted:
		return domain.ErrEmptyCart
	default:
		return domain.ErrInvalidCartState
	}
	c.state = entity.CartCheckingOut
	return nil
}

// finishCheckout cierra el cobro: éxito vacía el carrito, fallo conserva las líneas.
func (c *Cart) finishCheckout(err error) {
	if err != nil {
		c.state = entity.CartFailed
		c.lastError = err.Error()
		return
	}
	c.reset()
	c.state = entity.CartCommitted
}
