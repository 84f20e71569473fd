package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Requisiciones-api/internal/application/dto"
	"github.com/jhoicas/Requisiciones-api/internal/application/requisition"
)

// RequisitionHandler requisiciones individuales.
type RequisitionHandler struct {
	uc *requisition.RequisitionUseCase
}

// NewRequisitionHandler construye el handler.
func NewRequisitionHandler(uc *requisition.RequisitionUseCase) *RequisitionHandler {
	return &RequisitionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear requisición individual
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequisitionRequest  true  "ítem, cantidad, centro de costo, proyecto"
// @Success      201   {object}  dto.RequisitionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requisitions [post]
func (h *RequisitionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequisitionRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateRequisitionFromRequest(c.UserContext(), Actor(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Pending godoc
// @Summary      Requisiciones individuales pendientes
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.RequisitionResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/requisitions/pending [get]
func (h *RequisitionHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.ListPending(c.UserContext(), Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Mine godoc
// @Summary      Requisiciones individuales del usuario autenticado
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.RequisitionResponse
// @Router       /api/requisitions/mine [get]
func (h *RequisitionHandler) Mine(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.UserContext(), Actor(c), "")
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByUser requisiciones individuales de otro usuario (administrador).
// @Summary      Requisiciones de un usuario
// @Tags         requisitions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {array}  dto.RequisitionResponse
// @Router       /api/users/{id}/requisitions [get]
func (h *RequisitionHandler) ByUser(c *fiber.Ctx) error {
	out, err := h.uc.ListByUser(c.UserContext(), Actor(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar requisición
// @Tags         requisitions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la requisición"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/approve [post]
func (h *RequisitionHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.ApproveRequisition(c.UserContext(), Actor(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "requisición aprobada"})
}

// Reject godoc
// @Summary      Rechazar requisición
// @Tags         requisitions
// @Security     Bearer
// @Accept       json
// @Param        id    path  string             true   "ID de la requisición"
// @Param        body  body  dto.RejectRequest  false  "motivo"
// @Success      200   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/requisitions/{id}/reject [post]
func (h *RequisitionHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.uc.RejectRequisition(c.UserContext(), Actor(c), c.Params("id"), in.Reason); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "requisición rechazada"})
}
