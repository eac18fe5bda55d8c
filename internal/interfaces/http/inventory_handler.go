package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/inventory"
	"github.com/jhoicas/shop-erp/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// InventoryHandler maneja movimientos de stock y reportes de inventario (protegido).
type InventoryHandler struct {
	uc       *inventory.StockUseCase
	reports  *inventory.ReportsUseCase
	products *inventory.ProductUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase, reports *inventory.ReportsUseCase, products *inventory.ProductUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, reports: reports, products: products}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "type (receive|adjust|transfer), product_id, location_id o from/to, quantity"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveRequest  true  "product_id, location_id, quantity > 0, unit_cost opcional"
// @Success      201   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/receive [post]
func (h *InventoryHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Receive(c.UserContext(), inventory.ReceiveInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		Reason:     in.Reason,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToStockChangeResponse(res))
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  Delta con signo. Si el resultado sería negativo se deja en 0 y clamped es true.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustRequest  true  "product_id, location_id, delta != 0"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Adjust(c.UserContext(), inventory.AdjustInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Delta:      in.Delta,
		Reason:     in.Reason,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToStockChangeResponse(res))
}

// Transfer godoc
// @Summary      Traslado entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, quantity > 0"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.Transfer(c.UserContext(), inventory.TransferInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Quantity:       in.Quantity,
		Reason:         in.Reason,
		UserID:         GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToTransferResponse(res))
}

// Movements godoc
// @Summary      Consultar el libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        type         query  string  false  "Tipo de movimiento"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Máximo de resultados"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var q dto.MovementFilterRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return validation(c, "fechas en formato YYYY-MM-DD")
	}
	out, err := h.reports.Movements(repository.MovementFilter{
		ProductID:  q.ProductID,
		LocationID: q.LocationID,
		Type:       q.Type,
		From:       from,
		To:         to,
		Limit:      q.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo y sugerencia de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.reports.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "items": list})
}

// OutOfStock godoc
// @Summary      Productos sin stock en ninguna ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/out-of-stock [get]
func (h *InventoryHandler) OutOfStock(c *fiber.Ctx) error {
	list, err := h.reports.OutOfStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Valuation godoc
// @Summary      Valor del inventario al costo y al precio de venta
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  inventory.Valuation
// @Router       /api/inventory/valuation [get]
func (h *InventoryHandler) Valuation(c *fiber.Ctx) error {
	v, err := h.reports.Valuation()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(v)
}

// ByCategory godoc
// @Summary      Unidades en stock por categoría
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de categorías (default 10)"
// @Success      200  {array}  object
// @Router       /api/inventory/by-category [get]
func (h *InventoryHandler) ByCategory(c *fiber.Ctx) error {
	list, err := h.reports.StockByCategory(c.QueryInt("limit", 10))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Reconcile godoc
// @Summary      Diferencias entre el stock y el replay del libro
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	list, err := h.reports.Reconcile()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"consistent": len(list) == 0, "discrepancies": list})
}

// POS godoc
// @Summary      Productos vendibles en una tienda
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Tienda"
// @Param        search       query  string  false  "Texto a buscar"
// @Success      200  {array}  dto.POSProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/pos [get]
func (h *InventoryHandler) POS(c *fiber.Ctx) error {
	locationID := c.Query("location_id")
	if locationID == "" {
		return validation(c, "location_id es requerido")
	}
	list, err := h.products.AvailableForPOS(locationID, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// parseRange interpreta from/to como fechas UTC; to incluye el día completo.
func parseRange(fromS, toS string) (from, to *time.Time, err error) {
	if fromS != "" {
		t, err := time.Parse(dateLayout, fromS)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if toS != "" {
		t, err := time.Parse(dateLayout, toS)
		if err != nil {
			return nil, nil, err
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
