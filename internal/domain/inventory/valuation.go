package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// ProductValuation valor del stock de un producto al costo y al precio de venta.
type ProductValuation struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	AtCost      decimal.Decimal `json:"atCost"`
	AtSalePrice decimal.Decimal `json:"atSalePrice"`
}

// Valuation totales del inventario más el detalle por producto.
type Valuation struct {
	TotalAtCost      decimal.Decimal    `json:"totalAtCost"`
	TotalAtSalePrice decimal.Decimal    `json:"totalAtSalePrice"`
	Products         []ProductValuation `json:"products"`
}

// Value calcula la valoración del catálogo usando el total calculado de cada producto.
func Value(products []*entity.Product) Valuation {
	v := Valuation{TotalAtCost: decimal.Zero, TotalAtSalePrice: decimal.Zero, Products: make([]ProductValuation, 0, len(products))}
	for _, p := range products {
		qty := decimal.NewFromInt(int64(p.TotalQuantity()))
		row := ProductValuation{
			ProductID:   p.ID,
			ProductName: p.DisplayName(),
			Category:    p.Category,
			Quantity:    p.TotalQuantity(),
			AtCost:      p.BasePrice.Mul(qty).Round(2),
			AtSalePrice: p.SellingPrice.Mul(qty).Round(2),
		}
		v.TotalAtCost = v.TotalAtCost.Add(row.AtCost)
		v.TotalAtSalePrice = v.TotalAtSalePrice.Add(row.AtSalePrice)
		v.Products = append(v.Products, row)
	}
	sort.Slice(v.Products, func(i, j int) bool {
		return v.Products[i].Category+v.Products[i].ProductName < v.Products[j].Category+v.Products[j].ProductName
	})
	return v
}

// CategoryStock unidades en stock de una categoría.
type CategoryStock struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// StockByCategory agrupa unidades por categoría, de mayor a menor, omitiendo las vacías.
func StockByCategory(products []*entity.Product, limit int) []CategoryStock {
	acc := make(map[string]int)
	for _, p := range products {
		cat := p.Category
		if cat == "" {
			cat = "Sin categoría"
		}
		acc[cat] += p.TotalQuantity()
	}
	out := make([]CategoryStock, 0, len(acc))
	for cat, q := range acc {
		if q > 0 {
			out = append(out, CategoryStock{Category: cat, Quantity: q})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Category < out[j].Category
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
