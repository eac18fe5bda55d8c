package entity

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con stock repartido por ubicación.
// El total nunca se guarda: se calcula desde StockByLocation.
type Product struct {
	ID              string          `json:"id"`
	SKU             string          `json:"sku"`
	SerialNumber    string          `json:"serialNumber,omitempty"`
	Category        string          `json:"category"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Condition       string          `json:"condition,omitempty"`
	Description     string          `json:"description,omitempty"`
	Supplier        string          `json:"supplier,omitempty"`
	Warranty        string          `json:"warranty,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Tags            string          `json:"tags,omitempty"`
	Attributes      json.RawMessage `json:"attributes,omitempty"`
	BasePrice       decimal.Decimal `json:"basePrice"`
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	BestPrice       decimal.Decimal `json:"bestPrice"`
	StockByLocation map[string]int  `json:"stockByLocation"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// DisplayName es el nombre que se congela en movimientos y ventas ("Marca Modelo").
func (p *Product) DisplayName() string {
	return strings.TrimSpace(p.Brand + " " + p.Model)
}

// StockAt devuelve el stock en la ubicación (0 si no hay entrada).
func (p *Product) StockAt(locationID string) int {
	if p == nil || p.StockByLocation == nil {
		return 0
	}
	return p.StockByLocation[locationID]
}

// SetStock fija el stock de una ubicación; cero elimina la clave.
func (p *Product) SetStock(locationID string, qty int) {
	if p.StockByLocation == nil {
		p.StockByLocation = make(map[string]int)
	}
	if qty <= 0 {
		delete(p.StockByLocation, locationID)
		return
	}
	p.StockByLocation[locationID] = qty
}

// TotalQuantity suma el stock de todas las ubicaciones.
func (p *Product) TotalQuantity() int {
	total := 0
	for _, q := range p.StockByLocation {
		total += q
	}
	return total
}

// StockedLocations devuelve las ubicaciones con stock > 0, ordenadas por id.
func (p *Product) StockedLocations() []string {
	ids := make([]string, 0, len(p.StockByLocation))
	for id, q := range p.StockByLocation {
		if q > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Clone copia el producto, incluido el mapa de stock.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.StockByLocation = make(map[string]int, len(p.StockByLocation))
	for k, v := range p.StockByLocation {
		c.StockByLocation[k] = v
	}
	if p.Attributes != nil {
		c.Attributes = append(json.RawMessage(nil), p.Attributes...)
	}
	return &c
}

// MarshalJSON expone totalQuantity como proyección calculada.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		TotalQuantity int `json:"totalQuantity"`
	}{alias: alias(p), TotalQuantity: p.TotalQuantity()})
}

// UnmarshalJSON ignora cualquier totalQuantity recibido y descarta entradas en cero.
func (p *Product) UnmarshalJSON(data []byte) error {
	type alias Product
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Product(a)
	for loc, q := range p.StockByLocation {
		if q == 0 {
			delete(p.StockByLocation, loc)
		}
	}
	if p.StockByLocation == nil {
		p.StockByLocation = make(map[string]int)
	}
	return nil
}
