package handlers

import (
	"github.com/gin-gonic/gin"

	"plateyard/internal/core/apperror"
	"plateyard/internal/core/id"
	"plateyard/internal/domain/plate"
	"plateyard/internal/infrastructure/http/v1/dto"
)

// PlateHandler exposes the plate catalog over HTTP.
type PlateHandler struct {
	*BaseHandler
	service *plate.Service
}

// NewPlateHandler creates a plate handler over the catalog engine.
func NewPlateHandler(base *BaseHandler, service *plate.Service) *PlateHandler {
	return &PlateHandler{BaseHandler: base, service: service}
}

// List handles GET /plates. Unknown sort fields are rejected with 400; a
// malformed numberFilter silently deactivates the numeric filter.
func (h *PlateHandler) List(c *gin.Context) {
	var req dto.ListPlatesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	result, err := h.service.List(c.Request.Context(), req.ToListRequest())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPaginated(result))
}

// Add handles POST /plates/:id. Returns 201 with the persisted record, 400
// on validation failure, 409 on a duplicate registration.
func (h *PlateHandler) Add(c *gin.Context) {
	plateID, ok := h.parseID(c)
	if !ok {
		return
	}

	var payload dto.PlatePayload
	if !h.BindJSON(c, &payload) {
		return
	}

	candidate, err := payload.ToPlate()
	if err != nil {
		h.Error(c, err)
		return
	}

	created, err := h.service.Add(c.Request.Context(), plateID, candidate).Unpack()
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, dto.FromPlate(created))
}

// Reserve handles POST /plates/:id/reserve.
func (h *PlateHandler) Reserve(c *gin.Context) {
	plateID, ok := h.parseID(c)
	if !ok {
		return
	}

	updated, err := h.service.Reserve(c.Request.Context(), plateID).Unpack()
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPlate(updated))
}

// Release handles POST /plates/:id/release.
func (h *PlateHandler) Release(c *gin.Context) {
	plateID, ok := h.parseID(c)
	if !ok {
		return
	}

	updated, err := h.service.Release(c.Request.Context(), plateID).Unpack()
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPlate(updated))
}

func (h *PlateHandler) parseID(c *gin.Context) (id.ID, bool) {
	plateID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid plate id").WithDetail("id", c.Param("id")))
		return id.Nil(), false
	}
	return plateID, true
}
