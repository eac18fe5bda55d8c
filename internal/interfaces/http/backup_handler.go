package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/shop-erp/internal/application/backup"
	"github.com/jhoicas/shop-erp/internal/application/dto"
)

// BackupHandler exporta, importa y reinicia todos los datos persistidos.
type BackupHandler struct {
	uc *backup.UseCase
}

// NewBackupHandler construye el handler.
func NewBackupHandler(uc *backup.UseCase) *BackupHandler {
	return &BackupHandler{uc: uc}
}

// Export godoc
// @Summary      Exportar todos los datos
// @Description  Configuración, productos, clientes, ventas y libro de movimientos en un solo JSON.
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  backup.Dataset
// @Router       /api/backup/export [get]
func (h *BackupHandler) Export(c *fiber.Ctx) error {
	data, err := h.uc.Export(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	name := fmt.Sprintf("shop-erp-backup-%s.json", data.ExportedAt.Format("20060102-150405"))
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.JSON(data)
}

// Import godoc
// @Summary      Importar un respaldo (admin)
// @Description  Reemplaza todas las colecciones. Si el archivo no es válido no se modifica nada.
// @Tags         backup
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  backup.Dataset  true  "Archivo exportado"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/backup/import [post]
func (h *BackupHandler) Import(c *fiber.Ctx) error {
	var data backup.Dataset
	if err := c.BodyParser(&data); err != nil {
		return badBody(c)
	}
	if err := h.uc.Import(c.UserContext(), &data); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{
		Success: true,
		Message: fmt.Sprintf("Importados %d productos, %d clientes, %d ventas y %d movimientos",
			len(data.Products), len(data.Customers), len(data.Sales), len(data.Movements)),
	})
}

// Reset godoc
// @Summary      Borrar todos los datos (admin)
// @Description  Vacía productos, clientes, ventas y movimientos. La configuración se conserva.
// @Tags         backup
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/backup/reset [post]
func (h *BackupHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Success: true, Message: "Datos eliminados"})
}
