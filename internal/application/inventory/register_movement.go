package inventory

import (
	"context"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/domain"
	"github.com/jhoicas/shop-erp/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el body genérico de POST /api/inventory/movements
// a Receive, Adjust o Transfer según el tipo.
func (uc *StockUseCase) RegisterMovementFromRequest(ctx context.Context, userID string, in dto.RegisterMovementRequest) (any, error) {
	switch in.Type {
	case dto.MovementRequestReceive:
		res, err := uc.Receive(ctx, ReceiveInput{
			ProductID: in.ProductID, LocationID: in.LocationID, Quantity: in.Quantity,
			UnitCost: in.UnitCost, Reason: in.Reason, UserID: userID,
		})
		if err != nil {
			return nil, err
		}
		return ToStockChangeResponse(res), nil
	case dto.MovementRequestAdjust:
		res, err := uc.Adjust(ctx, AdjustInput{
			ProductID: in.ProductID, LocationID: in.LocationID, Delta: in.Quantity,
			Reason: in.Reason, UserID: userID,
		})
		if err != nil {
			return nil, err
		}
		return ToStockChangeResponse(res), nil
	case dto.MovementRequestTransfer:
		res, err := uc.Transfer(ctx, TransferInput{
			ProductID: in.ProductID, FromLocationID: in.FromLocationID, ToLocationID: in.ToLocationID,
			Quantity: in.Quantity, Reason: in.Reason, UserID: userID,
		})
		if err != nil {
			return nil, err
		}
		return ToTransferResponse(res), nil
	}
	return nil, domain.ErrInvalidInput
}

// ToStockChangeResponse convierte el resultado de receive/adjust al DTO.
func ToStockChangeResponse(r *StockResult) dto.StockChangeResponse {
	return dto.StockChangeResponse{
		Success:          true,
		Message:          r.Message,
		ProductID:        r.ProductID,
		LocationID:       r.LocationID,
		PreviousQuantity: r.Previous,
		NewQuantity:      r.New,
		AppliedChange:    r.Applied,
		Clamped:          r.Clamped,
		TotalQuantity:    r.TotalQuantity,
	}
}

// ToTransferResponse convierte el resultado de un traslado al DTO.
func ToTransferResponse(r *TransferResult) dto.TransferResponse {
	return dto.TransferResponse{
		Success:        true,
		Message:        r.Message,
		TransferID:     r.TransferID,
		ProductID:      r.ProductID,
		FromLocationID: r.FromLocationID,
		ToLocationID:   r.ToLocationID,
		Quantity:       r.Quantity,
		FromQuantity:   r.FromQuantity,
		ToQuantity:     r.ToQuantity,
	}
}

// ToMovementResponse convierte un movimiento del libro al DTO.
func ToMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                m.ID,
		Seq:               m.Seq,
		ProductID:         m.ProductID,
		ProductName:       m.ProductName,
		LocationID:        m.LocationID,
		Type:              m.Type,
		QuantityChange:    m.QuantityChange,
		NewQuantity:       m.NewQuantity,
		Shortfall:         m.Shortfall,
		Reason:            m.Reason,
		RelatedDocumentID: m.RelatedDocumentID,
		UserID:            m.UserID,
		Timestamp:         m.Timestamp,
	}
}
