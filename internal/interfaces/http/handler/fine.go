package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/library/backend/internal/application/lending"
)

// FineHandler handles administrative fine endpoints
type FineHandler struct {
	BaseHandler
	fineService *lendingapp.FineService
}

// NewFineHandler creates a new FineHandler
func NewFineHandler(fineService *lendingapp.FineService) *FineHandler {
	return &FineHandler{fineService: fineService}
}

// Record records a fine by hand
//
// @Summary      Record fine
// @Description  Records a fine against a loan; issued_on defaults to today
// @Tags         fines
// @Accept       json
// @Produce      json
// @Param        request body lendingapp.RecordFineRequest true "Fine data"
// @Success      201 {object} dto.Response{data=lendingapp.FineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fines [post]
func (h *FineHandler) Record(c *gin.Context) {
	var req lendingapp.RecordFineRequest
	if !h.bindJSON(c, &req) {
		return
	}

	fine, err := h.fineService.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, fine)
}

// GetByID returns one fine
//
// @Summary      Get fine
// @Description  Returns one fine with its loan, item and member
// @Tags         fines
// @Produce      json
// @Param        id path string true "Fine ID"
// @Success      200 {object} dto.Response{data=lendingapp.FineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fines/{id} [get]
func (h *FineHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Fine")
	if !ok {
		return
	}

	fine, err := h.fineService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fine)
}

// List returns every fine
//
// @Summary      List fines
// @Description  Lists every fine with its loan, item and member, most recent first
// @Tags         fines
// @Produce      json
// @Success      200 {object} dto.Response{data=[]lendingapp.FineResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fines [get]
func (h *FineHandler) List(c *gin.Context) {
	fines, err := h.fineService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fines)
}

// Delete removes a fine
//
// @Summary      Delete fine
// @Description  Removes a fine
// @Tags         fines
// @Produce      json
// @Param        id path string true "Fine ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /fines/{id} [delete]
func (h *FineHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Fine")
	if !ok {
		return
	}

	if err := h.fineService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
