package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/shop-erp/internal/application/ports"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
	"github.com/jhoicas/shop-erp/internal/domain/inventory"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

// StockUseCase es el almacén de inventario: toda variación de stock pasa por aquí y
// queda anotada en el libro de movimientos dentro de la misma transacción.
type StockUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	notifier     ports.Notifier
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	notifier ports.Notifier,
) *StockUseCase {
	if notifier == nil {
		notifier = ports.NopNotifier{}
	}
	return &StockUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		notifier:     notifier,
	}
}

// ReceiveInput entrada de mercancía a una ubicación.
// Si UnitCost viene informado, el precio base pasa a ser el costo promedio ponderado.
type ReceiveInput struct {
	ProductID  string
	LocationID string
	Quantity   int
	UnitCost   *decimal.Decimal
	Reason     string
	UserID     string
}

// AdjustInput corrección manual con signo.
type AdjustInput struct {
	ProductID  string
	LocationID string
	Delta      int
	Reason     string
	UserID     string
}

// TransferInput traslado entre dos ubicaciones.
type TransferInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	Reason         string
	UserID         string
}

// StockResult resultado de receive/adjust/sell. Una variación recortada no es un error:
// Clamped u Oversold lo indican y Message lo explica.
type StockResult struct {
	ProductID     string
	LocationID    string
	Previous      int
	New           int
	Applied       int
	Clamped       bool
	Oversold      bool
	Shortfall     int
	TotalQuantity int
	Message       string
	Movement      *entity.StockMovement
}

// TransferResult resultado de un traslado exitoso.
type TransferResult struct {
	TransferID     string
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Quantity       int
	FromQuantity   int
	ToQuantity     int
	Message        string
	Out            *entity.StockMovement
	In             *entity.StockMovement
}

// Receive suma mercancía y anota un manual_adjustment con la cantidad recibida.
func (uc *StockUseCase) Receive(ctx context.Context, in ReceiveInput) (*StockResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.requireLocation(in.LocationID); err != nil {
		return nil, err
	}
	reason := in.Reason
	if reason == "" {
		reason = "Recepción de mercancía"
	}

	var res *StockResult
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := loadProduct(productRepo, in.ProductID)
		if err != nil {
			return err
		}
		change, err := inventory.Receive(product.StockAt(in.LocationID), in.Quantity)
		if err != nil {
			return err
		}
		if in.UnitCost != nil {
			product.BasePrice = inventory.WeightedAverageCost(product.TotalQuantity(), product.BasePrice, in.Quantity, *in.UnitCost)
		}
		mov := &entity.StockMovement{
			Type:           entity.MovementManualAdjustment,
			QuantityChange: change.Applied,
			NewQuantity:    change.New,
			Reason:         reason,
			UserID:         in.UserID,
		}
		res, err = applyChange(movRepo, productRepo, product, in.LocationID, change, mov)
		return err
	})
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	res.Message = fmt.Sprintf("Se recibieron %d unidades en %s", in.Quantity, in.LocationID)
	return res, nil
}

// Adjust aplica un delta con piso en cero. El movimiento registra el delta aplicado,
// que puede ser menor que el solicitado; en ese caso Clamped es true.
func (uc *StockUseCase) Adjust(ctx context.Context, in AdjustInput) (*StockResult, error) {
	if in.Delta == 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := uc.requireLocation(in.LocationID); err != nil {
		return nil, err
	}

	var res *StockResult
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := loadProduct(productRepo, in.ProductID)
		if err != nil {
			return err
		}
		change, err := inventory.Adjust(product.StockAt(in.LocationID), in.Delta)
		if err != nil {
			return err
		}
		mov := &entity.StockMovement{
			Type:           entity.MovementManualAdjustment,
			QuantityChange: change.Applied,
			NewQuantity:    change.New,
			Reason:         in.Reason,
			UserID:         in.UserID,
		}
		res, err = applyChange(movRepo, productRepo, product, in.LocationID, change, mov)
		return err
	})
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	if res.Clamped {
		res.Message = fmt.Sprintf("El stock no puede quedar negativo: se aplicó %d en lugar de %d", res.Applied, in.Delta)
		uc.notifier.Notify(ctx, ports.LevelWarning, res.Message)
	} else {
		res.Message = fmt.Sprintf("Stock ajustado a %d", res.New)
	}
	return res, nil
}

// Sell descuenta una venta confirmada en su propia transacción.
func (uc *StockUseCase) Sell(ctx context.Context, productID, locationID string, quantity int, saleID, userID string) (*StockResult, error) {
	var res *StockResult
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		var err error
		res, err = uc.SellInTx(ctx, movRepo, productRepo, productID, locationID, quantity, saleID, userID)
		return err
	})
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	return res, nil
}

// SellInTx descuenta una venta usando los repositorios de la transacción del cobro.
// Nunca rechaza por falta de stock: el stock queda en cero, el faltante se anota
// en el movimiento y se avisa al operador.
func (uc *StockUseCase) SellInTx(
	ctx context.Context,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	productID, locationID string,
	quantity int,
	saleID, userID string,
) (*StockResult, error) {
	if err := uc.requireLocation(locationID); err != nil {
		return nil, err
	}
	product, err := loadProduct(productRepo, productID)
	if err != nil {
		return nil, err
	}
	change, err := inventory.Sell(product.StockAt(locationID), quantity)
	if err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		Type:              entity.MovementSale,
		QuantityChange:    change.Requested,
		NewQuantity:       change.New,
		Shortfall:         change.Shortfall,
		RelatedDocumentID: saleID,
		UserID:            userID,
	}
	res, err := applyChange(movRepo, productRepo, product, locationID, change, mov)
	if err != nil {
		return nil, err
	}
	res.Clamped = false
	if change.Shortfall > 0 {
		res.Oversold = true
		res.Shortfall = change.Shortfall
		res.Message = fmt.Sprintf("Sobreventa de %s en %s: se vendieron %d pero solo había %d",
			product.DisplayName(), locationID, quantity, change.Previous)
		uc.notifier.Notify(ctx, ports.LevelWarning, res.Message)
	}
	return res, nil
}

// Transfer mueve stock entre ubicaciones. Si el origen no alcanza no cambia nada
// y no se anota ningún movimiento. Si alcanza, se anotan exactamente dos movimientos
// que comparten el id del traslado.
func (uc *StockUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.FromLocationID == in.ToLocationID {
		return nil, fmt.Errorf("origen y destino son la misma ubicación: %w", domain.ErrInvalidLocation)
	}
	if err := uc.requireLocation(in.FromLocationID); err != nil {
		return nil, err
	}
	if err := uc.requireLocation(in.ToLocationID); err != nil {
		return nil, err
	}

	transferID := uuid.Must(uuid.NewV7()).String()
	var res *TransferResult
	err := uc.txRunner.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		product, err := loadProduct(productRepo, in.ProductID)
		if err != nil {
			return err
		}
		out, inc, err := inventory.Transfer(product.StockAt(in.FromLocationID), product.StockAt(in.ToLocationID), in.Quantity)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		product.SetStock(in.FromLocationID, out.New)
		product.SetStock(in.ToLocationID, inc.New)
		product.UpdatedAt = now
		if err := productRepo.Update(product); err != nil {
			return err
		}
		outMov := &entity.StockMovement{
			ProductID:         product.ID,
			ProductName:       product.DisplayName(),
			LocationID:        in.FromLocationID,
			Type:              entity.MovementTransferOut,
			QuantityChange:    out.Applied,
			NewQuantity:       out.New,
			Reason:            transferReason("Traslado a "+in.ToLocationID, in.Reason),
			RelatedDocumentID: transferID,
			UserID:            in.UserID,
			Timestamp:         now,
		}
		inMov := &entity.StockMovement{
			ProductID:         product.ID,
			ProductName:       product.DisplayName(),
			LocationID:        in.ToLocationID,
			Type:              entity.MovementTransferIn,
			QuantityChange:    inc.Applied,
			NewQuantity:       inc.New,
			Reason:            transferReason("Traslado desde "+in.FromLocationID, in.Reason),
			RelatedDocumentID: transferID,
			UserID:            in.UserID,
			Timestamp:         now,
		}
		for _, m := range []*entity.StockMovement{outMov, inMov} {
			if err := movRepo.Append(m); err != nil {
				return fmt.Errorf("%w: anotar traslado: %v", domain.ErrLedgerDesync, err)
			}
		}
		res = &TransferResult{
			TransferID:     transferID,
			ProductID:      product.ID,
			FromLocationID: in.FromLocationID,
			ToLocationID:   in.ToLocationID,
			Quantity:       in.Quantity,
			FromQuantity:   out.New,
			ToQuantity:     inc.New,
			Out:            outMov,
			In:             inMov,
		}
		return nil
	})
	if err != nil {
		return nil, uc.fail(ctx, err)
	}
	res.Message = fmt.Sprintf("Se trasladaron %d unidades de %s a %s", in.Quantity, in.FromLocationID, in.ToLocationID)
	return res, nil
}

// GetAvailable devuelve el stock del producto en la ubicación. Nunca falla:
// producto o ubicación desconocidos valen 0.
func (uc *StockUseCase) GetAvailable(productID, locationID string) int {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil || product == nil {
		return 0
	}
	return product.StockAt(locationID)
}

func (uc *StockUseCase) requireLocation(id string) error {
	if id == "" {
		return domain.ErrInvalidLocation
	}
	loc, err := uc.locationRepo.GetByID(id)
	if err != nil {
		return err
	}
	if loc == nil {
		return fmt.Errorf("%q: %w", id, domain.ErrInvalidLocation)
	}
	return nil
}

// fail avisa al operador cuando el libro quedó desincronizado y devuelve err sin cambios.
func (uc *StockUseCase) fail(ctx context.Context, err error) error {
	if errors.Is(err, domain.ErrLedgerDesync) {
		uc.notifier.Notify(ctx, ports.LevelError, "Error crítico: el stock y el libro de movimientos no cuadran. "+err.Error())
	}
	return err
}

func loadProduct(productRepo repository.ProductRepository, id string) (*entity.Product, error) {
	product, err := productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// applyChange guarda el nuevo stock y luego anota el movimiento. Si la anotación falla
// la transacción se descarta y el error se reporta como desincronización.
func applyChange(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	product *entity.Product,
	locationID string,
	change inventory.Change,
	mov *entity.StockMovement,
) (*StockResult, error) {
	now := time.Now().UTC()
	product.SetStock(locationID, change.New)
	product.UpdatedAt = now
	if err := productRepo.Update(product); err != nil {
		return nil, err
	}
	mov.ProductID = product.ID
	mov.ProductName = product.DisplayName()
	mov.LocationID = locationID
	mov.Timestamp = now
	if err := movRepo.Append(mov); err != nil {
		return nil, fmt.Errorf("%w: anotar %s de %s: %v", domain.ErrLedgerDesync, mov.Type, product.ID, err)
	}
	return &StockResult{
		ProductID:     product.ID,
		LocationID:    locationID,
		Previous:      change.Previous,
		New:           change.New,
		Applied:       change.Applied,
		Clamped:       change.Clamped(),
		TotalQuantity: product.TotalQuantity(),
		Movement:      mov,
	}, nil
}

// transferReason agrega el motivo del usuario solo si viene informado.
func transferReason(base, reason string) string {
	if strings.TrimSpace(reason) == "" {
		return base
	}
	return base + ": " + reason
}
