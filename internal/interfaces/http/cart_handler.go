package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/application/checkout"
	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/sales"
)

// CartHandler maneja el carrito del usuario autenticado y el cobro.
// Cada usuario tiene un único carrito en memoria.
type CartHandler struct {
	uc *checkout.CartUseCase
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *checkout.CartUseCase) *CartHandler {
	return &CartHandler{uc: uc}
}

func toOperation(res *checkout.Result) dto.CartOperationResponse {
	return dto.CartOperationResponse{
		Success:     true,
		Message:     res.Message,
		Capped:      res.Capped,
		Adjustments: res.Adjustments,
		Cart:        checkout.ToCartResponse(res.Cart),
	}
}

func (h *CartHandler) reply(c *fiber.Ctx, res *checkout.Result, err error) error {
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toOperation(res))
}

// Get godoc
// @Summary      Carrito actual
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(checkout.ToCartResponse(h.uc.Get(GetUserID(c))))
}

// AddLine godoc
// @Summary      Agregar una unidad de un producto
// @Description  Si el producto ya está en el carrito suma una unidad, con el stock de la tienda como tope.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddCartLineRequest  true  "product_id"
// @Success      200   {object}  dto.CartOperationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/lines [post]
func (h *CartHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddCartLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.ProductID == "" {
		return validation(c, "product_id es requerido")
	}
	res, err := h.uc.AddLine(GetUserID(c), in.ProductID)
	return h.reply(c, res, err)
}

// SetQuantity godoc
// @Summary      Fijar la cantidad de una línea
// @Description  0 elimina la línea. Una cantidad mayor al stock disponible se recorta y capped es true.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productId  path  string                      true  "ID del producto"
// @Param        body       body  dto.SetCartQuantityRequest  true  "quantity >= 0"
// @Success      200  {object}  dto.CartOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{productId} [put]
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var in dto.SetCartQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.SetQuantity(GetUserID(c), c.Params("productId"), in.Quantity)
	return h.reply(c, res, err)
}

// RemoveLine godoc
// @Summary      Quitar una línea del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.CartOperationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cart/lines/{productId} [delete]
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	res, err := h.uc.RemoveLine(GetUserID(c), c.Params("productId"))
	return h.reply(c, res, err)
}

// Clear godoc
// @Summary      Vaciar el carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartOperationResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	res, err := h.uc.Clear(GetUserID(c))
	return h.reply(c, res, err)
}

// ApplyDiscount godoc
// @Summary      Descuento porcentual sobre el subtotal
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartDiscountRequest  true  "percentage entre 0 y 100"
// @Success      200   {object}  dto.CartOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/discount [put]
func (h *CartHandler) ApplyDiscount(c *fiber.Ctx) error {
	var in dto.CartDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.ApplyDiscount(GetUserID(c), in.Percentage)
	return h.reply(c, res, err)
}

// SetLocation godoc
// @Summary      Cambiar la tienda del carrito
// @Description  Las líneas se recortan al stock de la nueva tienda; las que quedan en 0 se quitan.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartLocationRequest  true  "location_id"
// @Success      200   {object}  dto.CartOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cart/location [put]
func (h *CartHandler) SetLocation(c *fiber.Ctx) error {
	var in dto.CartLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.SetLocation(GetUserID(c), in.LocationID)
	return h.reply(c, res, err)
}

// SetCustomer godoc
// @Summary      Asignar o quitar el cliente del carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartCustomerRequest  true  "customer_id (null = anónimo)"
// @Success      200   {object}  dto.CartOperationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cart/customer [put]
func (h *CartHandler) SetCustomer(c *fiber.Ctx) error {
	var in dto.CartCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.CustomerID != nil && *in.CustomerID == "" {
		in.CustomerID = nil
	}
	res, err := h.uc.SetCustomer(GetUserID(c), in.CustomerID)
	return h.reply(c, res, err)
}

// SetNotes godoc
// @Summary      Notas de la venta
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CartNotesRequest  true  "notes"
// @Success      200   {object}  dto.CartOperationResponse
// @Router       /api/cart/notes [put]
func (h *CartHandler) SetNotes(c *fiber.Ctx) error {
	var in dto.CartNotesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.uc.SetNotes(GetUserID(c), in.Notes)
	return h.reply(c, res, err)
}

// Checkout godoc
// @Summary      Cobrar el carrito
// @Description  Registra la venta y descuenta el stock en una sola transacción. Si falla, el carrito conserva sus líneas.
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.CheckoutResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	res, err := h.uc.Commit(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CheckoutResponse{
		Success:  true,
		Message:  res.Message,
		Sale:     *sales.ToSaleResponse(res.Sale),
		Warnings: res.Warnings,
	})
}
