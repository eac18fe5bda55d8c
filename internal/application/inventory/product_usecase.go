package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo. El stock solo cambia con movimientos:
// el alta anota initial_stock y la baja anota deletion por cada ubicación con stock.
type ProductUseCase struct {
	txRunner       TxRunner
	productRepo    repository.ProductRepository
	locationRepo   repository.LocationRepository
	intakeLocation string
}

// NewProductUseCase construye el caso de uso. intakeLocation recibe el stock inicial
// cuando el alta no indica ubicación.
func NewProductUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	intakeLocation string,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:       txRunner,
		productRepo:    productRepo,
		locationRepo:   locationRepo,
		intakeLocation: intakeLocation,
	}
}

// Create da de alta un producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Model) == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := validatePrices(in.BasePrice, in.SellingPrice, in.BestPrice); err != nil {
		return nil, err
	}
	initial, err := uc.initialStock(in)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:              uuid.New().String(),
		SKU:             strings.TrimSpace(in.SKU),
		SerialNumber:    in.SerialNumber,
		Category:        in.Category,
		Brand:           in.Brand,
		Model:           in.Model,
		Condition:       in.Condition,
		Description:     in.Description,
		Supplier:        in.Supplier,
		Warranty:        in.Warranty,
		ImageURL:        in.ImageURL,
		Tags:            in.Tags,
		Attributes:      in.Attributes,
		BasePrice:       in.BasePrice,
		SellingPrice:    in.SellingPrice,
		BestPrice:       in.BestPrice,
		StockByLocation: make(map[string]int),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for loc, qty := range initial {
		product.SetStock(loc, qty)
	}

	err = uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		existing, err := productRepo.GetBySKU(product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}
		for _, loc := range product.StockedLocations() {
			qty := product.StockAt(loc)
			mov := &entity.StockMovement{
				ProductID:      product.ID,
				ProductName:    product.DisplayName(),
				LocationID:     loc,
				Type:           entity.MovementInitialStock,
				QuantityChange: qty,
				NewQuantity:    qty,
				Reason:         "Stock inicial",
				UserID:         userID,
				Timestamp:      now,
			}
			if err := movRepo.Append(mov); err != nil {
				return fmt.Errorf("%w: anotar stock inicial de %s: %v", domain.ErrLedgerDesync, product.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// initialStock normaliza las dos formas de indicar stock inicial.
func (uc *ProductUseCase) initialStock(in dto.CreateProductRequest) (map[string]int, error) {
	out := make(map[string]int)
	for loc, qty := range in.InitialStock {
		if qty < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if qty == 0 {
			continue
		}
		if err := uc.requireLocation(loc); err != nil {
			return nil, err
		}
		out[loc] += qty
	}
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Quantity > 0 {
		loc := in.LocationID
		if loc == "" {
			loc = uc.intakeLocation
		}
		if err := uc.requireLocation(loc); err != nil {
			return nil, err
		}
		out[loc] += in.Quantity
	}
	return out, nil
}

// GetByID obtiene un producto. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return ToProductResponse(product), nil
}

// Update modifica datos y precios. Nunca el stock.
// La lectura y la escritura ocurren en la misma transacción: un movimiento
// confirmado en paralelo no se pisa con una copia vieja del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var updated *entity.Product
	err := uc.txRunner.Run(ctx, func(_ repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetByID(id)
		if err != nil || product == nil {
			return err
		}
		if err := applyProductChanges(productRepo, product, in); err != nil {
			return err
		}
		product.UpdatedAt = time.Now().UTC()
		if err := productRepo.Update(product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil || updated == nil {
		return nil, err
	}
	return ToProductResponse(updated), nil
}

func applyProductChanges(productRepo repository.ProductRepository, product *entity.Product, in dto.UpdateProductRequest) error {
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku == "" {
			return domain.ErrInvalidInput
		}
		if sku != product.SKU {
			other, err := productRepo.GetBySKU(sku)
			if err != nil {
				return err
			}
			if other != nil {
				return domain.ErrDuplicate
			}
		}
		product.SKU = sku
	}
	setString(&product.SerialNumber, in.SerialNumber)
	setString(&product.Category, in.Category)
	setString(&product.Brand, in.Brand)
	setString(&product.Model, in.Model)
	setString(&product.Condition, in.Condition)
	setString(&product.Description, in.Description)
	setString(&product.Supplier, in.Supplier)
	setString(&product.Warranty, in.Warranty)
	setString(&product.ImageURL, in.ImageURL)
	setString(&product.Tags, in.Tags)
	if len(in.Attributes) > 0 {
		product.Attributes = in.Attributes
	}
	if in.BasePrice != nil {
		product.BasePrice = *in.BasePrice
	}
	if in.SellingPrice != nil {
		product.SellingPrice = *in.SellingPrice
	}
	if in.BestPrice != nil {
		product.BestPrice = *in.BestPrice
	}
	return validatePrices(product.BasePrice, product.SellingPrice, product.BestPrice)
}

// Delete anota un movimiento deletion por cada ubicación con stock y luego elimina el producto.
func (uc *ProductUseCase) Delete(ctx context.Context, id, userID string) error {
	return uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := loadProduct(productRepo, id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		for _, loc := range product.StockedLocations() {
			mov := &entity.StockMovement{
				ProductID:      product.ID,
				ProductName:    product.DisplayName(),
				LocationID:     loc,
				Type:           entity.MovementDeletion,
				QuantityChange: -product.StockAt(loc),
				NewQuantity:    0,
				Reason:         "Producto eliminado",
				UserID:         userID,
				Timestamp:      now,
			}
			if err := movRepo.Append(mov); err != nil {
				return fmt.Errorf("%w: anotar baja de %s: %v", domain.ErrLedgerDesync, product.ID, err)
			}
		}
		return productRepo.Delete(product.ID)
	})
}

// List filtra por texto (sku, marca, modelo, categoría, etiquetas) y ordena por modelo.
func (uc *ProductUseCase) List(search string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	matches := filterProducts(list, search)
	sort.SliceStable(matches, func(i, j int) bool {
		return strings.ToLower(matches[i].Model) < strings.ToLower(matches[j].Model)
	})
	total := len(matches)
	start := min(page.Offset, total)
	end := min(start+page.Limit, total)

	items := make([]dto.ProductResponse, 0, end-start)
	for _, p := range matches[start:end] {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// AvailableForPOS lista lo vendible en una tienda: stock > 0 en esa ubicación,
// ordenado por categoría y luego modelo.
func (uc *ProductUseCase) AvailableForPOS(locationID, search string) ([]dto.POSProductResponse, error) {
	if err := uc.requireLocation(locationID); err != nil {
		return nil, err
	}
	list, err := uc.productRepo.List()
	if err != nil {
		return nil, err
	}
	var out []dto.POSProductResponse
	for _, p := range filterProducts(list, search) {
		if qty := p.StockAt(locationID); qty > 0 {
			out = append(out, dto.POSProductResponse{ProductResponse: *ToProductResponse(p), Available: qty})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Model < out[j].Model
	})
	if out == nil {
		out = []dto.POSProductResponse{}
	}
	return out, nil
}

func (uc *ProductUseCase) requireLocation(id string) error {
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%q: %w", id, domain.ErrInvalidLocation)
	}
	return nil
}

func filterProducts(list []*entity.Product, search string) []*entity.Product {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return list
	}
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		for _, field := range []string{p.SKU, p.Brand, p.Model, p.Category, p.Tags} {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func validatePrices(prices ...decimal.Decimal) error {
	for _, p := range prices {
		if p.IsNegative() {
			return fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	stock := make(map[string]int, len(p.StockByLocation))
	for k, v := range p.StockByLocation {
		stock[k] = v
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		SKU:             p.SKU,
		SerialNumber:    p.SerialNumber,
		Name:            p.DisplayName(),
		Category:        p.Category,
		Brand:           p.Brand,
		Model:           p.Model,
		Condition:       p.Condition,
		Description:     p.Description,
		Supplier:        p.Supplier,
		Warranty:        p.Warranty,
		ImageURL:        p.ImageURL,
		Tags:            p.Tags,
		Attributes:      p.Attributes,
		BasePrice:       p.BasePrice,
		SellingPrice:    p.SellingPrice,
		BestPrice:       p.BestPrice,
		StockByLocation: stock,
		TotalQuantity:   p.TotalQuantity(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
