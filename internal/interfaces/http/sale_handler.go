package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/application/dto"
	"github.com/jhoicas/shop-erp/internal/application/sales"
)

// SaleHandler consulta el libro de ventas, sus reportes y el comprobante PDF.
type SaleHandler struct {
	ledger    *sales.LedgerUseCase
	dashboard *sales.DashboardUseCase
	receipts  *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(ledger *sales.LedgerUseCase, dashboard *sales.DashboardUseCase, receipts *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{ledger: ledger, dashboard: dashboard, receipts: receipts}
}

// List godoc
// @Summary      Listar ventas
// @Description  Más recientes primero. to incluye el día completo.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        location_id  query  string  false  "Tienda"
// @Success      200  {array}   dto.SaleResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleFilterRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "filtros inválidos"})
	}
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return validation(c, "fechas en formato YYYY-MM-DD")
	}
	list, err := h.ledger.QuerySales(sales.SaleFilter{
		From:       from,
		To:         to,
		CustomerID: q.CustomerID,
		LocationID: q.LocationID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener una venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.ledger.GetSale(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// DownloadReceipt godoc
// @Summary      Descargar el comprobante de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) DownloadReceipt(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.receipts.DownloadReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// Summary godoc
// @Summary      Totales históricos de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SalesSummaryDTO
// @Router       /api/sales/summary [get]
func (h *SaleHandler) Summary(c *fiber.Ctx) error {
	s, err := h.ledger.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(s)
}

// Daily godoc
// @Summary      Ventas y ganancia por día
// @Description  Una entrada por día, incluidos los días sin ventas, terminando hoy (UTC).
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Cantidad de días (default 7, máx 90)"
// @Success      200  {array}  dto.DailySalesDTO
// @Router       /api/sales/daily [get]
func (h *SaleHandler) Daily(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		return validation(c, "days debe estar entre 1 y 90")
	}
	list, err := h.ledger.DailySalesAndProfit(days, time.Now().UTC())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int     false  "Máximo de productos (default 5)"
// @Param        from   query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to     query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {array}  dto.TopProductDTO
// @Router       /api/sales/top-products [get]
func (h *SaleHandler) TopProducts(c *fiber.Ctx) error {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return validation(c, "fechas en formato YYYY-MM-DD")
	}
	list, err := h.ledger.TopSellingProducts(c.QueryInt("limit", 5), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Dashboard godoc
// @Summary      Resumen del día y del mes en curso
// @Description  Ventas y ganancia de hoy y del mes, top 5 del mes y conteo de productos con stock bajo o agotados.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/sales/dashboard [get]
func (h *SaleHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.dashboard.GetSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
