package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/inventory"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// ReportsUseCase consultas de solo lectura sobre stock y libro de movimientos:
// stock bajo con sugerencia de reposición, agotados, valoración, categorías,
// historial de movimientos y conciliación contra el libro.
type ReportsUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	saleRepo     repository.SaleRepository
	settingsRepo repository.SettingsRepository
}

// NewReportsUseCase construye el caso de uso de reportes.
func NewReportsUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
	settingsRepo repository.SettingsRepository,
) *ReportsUseCase {
	return &ReportsUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		saleRepo:     saleRepo,
		settingsRepo: settingsRepo,
	}
}

// LowStock devuelve los productos con 0 < total <= umbral, de menor a mayor total.
// Cada fila trae la cantidad sugerida para llegar a 1.5 veces el umbral y su costo;
// la prioridad sube con las unidades vendidas en los últimos 90 días.
func (uc *ReportsUseCase) LowStock() ([]dto.LowStockItemDTO, error) {
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return nil, err
	}
	threshold := settings.LowStockThreshold
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	sold, err := uc.unitsSoldSince(time.Now().AddDate(0, 0, -90))
	if err != nil {
		return nil, err
	}

	ideal := decimal.NewFromInt(int64(threshold)).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
	items := make([]dto.LowStockItemDTO, 0)
	for _, p := range products {
		total := p.TotalQuantity()
		if total == 0 || total > threshold {
			continue
		}
		suggested := int(ideal) - total
		if suggested < 0 {
			suggested = 0
		}
		items = append(items, dto.LowStockItemDTO{
			ProductID:           p.ID,
			SKU:                 p.SKU,
			ProductName:         p.DisplayName(),
			Category:            p.Category,
			TotalQuantity:       total,
			Threshold:           threshold,
			StockByLocation:     copyStock(p),
			SuggestedOrderQty:   suggested,
			EstimatedOrderCost:  p.BasePrice.Mul(decimal.NewFromInt(int64(suggested))).Round(2),
			UnitsSoldLast90Days: sold[p.ID],
		})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].TotalQuantity < items[j].TotalQuantity })

	byDemand := make([]int, len(items))
	for i := range byDemand {
		byDemand[i] = i
	}
	sort.SliceStable(byDemand, func(a, b int) bool {
		return items[byDemand[a]].UnitsSoldLast90Days > items[byDemand[b]].UnitsSoldLast90Days
	})
	for rank, idx := range byDemand {
		items[idx].Priority = rank + 1
	}
	return items, nil
}

// OutOfStock productos sin unidades en ninguna ubicación, ordenados por modelo.
func (uc *ReportsUseCase) OutOfStock() ([]dto.ProductResponse, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0)
	for _, p := range products {
		if p.TotalQuantity() == 0 {
			out = append(out, *ToProductResponse(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Model < out[j].Model })
	return out, nil
}

// Valuation valor del inventario al costo y al precio de venta.
func (uc *ReportsUseCase) Valuation() (*inventory.Valuation, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	v := inventory.Value(products)
	return &v, nil
}

// StockByCategory unidades por categoría (limit <= 0 sin límite).
func (uc *ReportsUseCase) StockByCategory(limit int) ([]inventory.CategoryStock, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	return inventory.StockByCategory(products, limit), nil
}

// Reconcile reproduce el libro y lista los pares producto+ubicación que no cuadran.
func (uc *ReportsUseCase) Reconcile() ([]inventory.Discrepancy, error) {
	products, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	movements, err := uc.movementRepo.All()
	if err != nil {
		return nil, err
	}
	out := inventory.Reconcile(products, movements)
	if out == nil {
		out = []inventory.Discrepancy{}
	}
	return out, nil
}

// MovementsByProduct historial de un producto, del más reciente al más antiguo.
func (uc *ReportsUseCase) MovementsByProduct(productID string) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	list, err := uc.movementRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	if product == nil && len(list) == 0 {
		return nil, domain.ErrNotFound
	}
	return toMovementResponses(list), nil
}

// Movements consulta el libro con filtros, del más reciente al más antiguo.
func (uc *ReportsUseCase) Movements(filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	if filter.Type != "" && !entity.IsValidMovementType(filter.Type) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.movementRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// Counts cantidad de productos con stock bajo y agotados (para el dashboard).
func (uc *ReportsUseCase) Counts() (low, out int, err error) {
	settings, err := uc.settingsRepo.Get()
	if err != nil {
		return 0, 0, err
	}
	products, err := uc.productRepo.List()
	if err != nil {
		return 0, 0, err
	}
	for _, p := range products {
		switch total := p.TotalQuantity(); {
		case total == 0:
			out++
		case total <= settings.LowStockThreshold:
			low++
		}
	}
	return low, out, nil
}

func (uc *ReportsUseCase) unitsSoldSince(since time.Time) (map[string]int, error) {
	sales, err := uc.saleRepo.List()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int)
	for _, s := range sales {
		if s.Date.Before(since) {
			continue
		}
		for _, it := range s.Items {
			out[it.ProductID] += it.Quantity
		}
	}
	return out, nil
}

func toMovementResponses(list []*entity.StockMovement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

func copyStock(p *entity.Product) map[string]int {
	out := make(map[string]int, len(p.StockByLocation))
	for k, v := range p.StockByLocation {
		out[k] = v
	}
	return out
}
