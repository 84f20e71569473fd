package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
)

// PackageHandler paquetes de requisiciones y su aprobación.
type PackageHandler struct {
	uc *requisition.PackageUseCase
}

// NewPackageHandler construye el handler.
func NewPackageHandler(uc *requisition.PackageUseCase) *PackageHandler {
	return &PackageHandler{uc: uc}
}

// Create godoc
// @Summary      Crear paquete de requisiciones
// @Description  Verifica disponibilidad de cada ítem (suma por ítem) sin descontar stock.
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePackageRequest  true  "centro de costo, proyecto, líneas"
// @Success      201   {object}  dto.CreatePackageResponse
// @Failure      400   {object}  dto.ErrorResponse  "validación o stock insuficiente (item_id)"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/packages [post]
func (h *PackageHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePackageRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreatePackageFromRequest(c.UserContext(), Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Pending godoc
// @Summary      Paquetes pendientes
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.PackageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/packages/pending [get]
func (h *PackageHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.GetPendingPackages(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Paquetes del usuario autenticado
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PackageResponse
// @Router       /api/packages/mine [get]
func (h *PackageHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.GetUserPackages(c.UserContext(), Actor(c), "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByUser godoc
// @Summary      Paquetes de un usuario
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}   dto.PackageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/packages [get]
func (h *PackageHandler) ByUser(c *fiber.Ctx) error {
	out, err := h.uc.GetUserPackages(c.UserContext(), Actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener paquete con sus requisiciones
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packages/{id} [get]
func (h *PackageHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetPackage(c.UserContext(), Actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Items godoc
// @Summary      Requisiciones de un paquete
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {array}   dto.RequisitionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/items [get]
func (h *PackageHandler) Items(c *fiber.Ctx) error {
	out, err := h.uc.GetPackageItems(c.UserContext(), Actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar paquete completo
// @Description  Descuenta el stock de todas las requisiciones pendientes en una sola transacción.
// @Tags         packages
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del paquete"
// @Success      200  {object}  dto.PackageResponse
// @Failure      400  {object}  dto.ErrorResponse  "stock insuficiente (item_id)"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "paquete ya resuelto"
// @Router       /api/packages/{id}/approve [post]
func (h *PackageHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.ApprovePackage(c.UserContext(), Actor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return h.GetByID(c)
}

// Reject godoc
// @Summary      Rechazar paquete completo
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del paquete"
// @Param        body  body  dto.RejectRequest  false  "motivo"
// @Success      200   {object}  dto.PackageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/reject [post]
func (h *PackageHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.uc.RejectPackage(c.UserContext(), Actor(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return h.GetByID(c)
}

// ApproveItems godoc
// @Summary      Aprobar un subconjunto de requisiciones del paquete
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del paquete"
// @Param        body  body  dto.PackageItemsRequest  true  "requisition_ids"
// @Success      200   {object}  dto.PackageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/items/approve [post]
func (h *PackageHandler) ApproveItems(c *fiber.Ctx) error {
	var in dto.PackageItemsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.ApprovePackageItems(c.UserContext(), Actor(c), c.Params("id"), in.RequisitionIDs); err != nil {
		return respondError(c, err)
	}
	return h.GetByID(c)
}

// RejectItems godoc
// @Summary      Rechazar un subconjunto de requisiciones del paquete
// @Tags         packages
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del paquete"
// @Param        body  body  dto.PackageItemsRequest  true  "requisition_ids, reason"
// @Success      200   {object}  dto.PackageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/packages/{id}/items/reject [post]
func (h *PackageHandler) RejectItems(c *fiber.Ctx) error {
	var in dto.PackageItemsRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	if err := h.uc.RejectPackageItems(c.UserContext(), Actor(c), c.Params("id"), in.RequisitionIDs, in.Reason); err != nil {
		return respondError(c, err)
	}
	return h.GetByID(c)
}
