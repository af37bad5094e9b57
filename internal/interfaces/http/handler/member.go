package handler

import (
	"github.com/gin-gonic/gin"
	membershipapp "github.com/library/backend/internal/application/membership"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	BaseHandler
	memberService *membershipapp.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *membershipapp.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Register registers a borrower and assigns the next membership number
//
// @Summary      Register member
// @Description  Registers a member and assigns the next membership number
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        request body membershipapp.RegisterMemberRequest true "Member data"
// @Success      201 {object} dto.Response{data=membershipapp.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members [post]
func (h *MemberHandler) Register(c *gin.Context) {
	var req membershipapp.RegisterMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, member)
}

// GetByID returns one member
//
// @Summary      Get member
// @Description  Returns one member
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      200 {object} dto.Response{data=membershipapp.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [get]
func (h *MemberHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Member")
	if !ok {
		return
	}

	member, err := h.memberService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// List returns members in registration order
//
// @Summary      List members
// @Description  Lists members in registration order
// @Tags         members
// @Produce      json
// @Param        page query integer false "Page number, from 1"
// @Param        page_size query integer false "Page size, at most 500"
// @Success      200 {object} dto.Response{data=[]membershipapp.MemberResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	var filter membershipapp.MemberListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	members, err := h.memberService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Paged(c, members, len(members), filter.Page, filter.PageSize)
}

// Update edits name and personal identifier
//
// @Summary      Update member
// @Description  Edits name and personal identifier; the membership number never changes
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id path string true "Member ID"
// @Param        request body membershipapp.UpdateMemberRequest true "Member data"
// @Success      200 {object} dto.Response{data=membershipapp.MemberResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Member")
	if !ok {
		return
	}
	var req membershipapp.UpdateMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, member)
}

// Delete removes a member no loan refers to
//
// @Summary      Delete member
// @Description  Removes a member that no loan refers to
// @Tags         members
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Member")
	if !ok {
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
