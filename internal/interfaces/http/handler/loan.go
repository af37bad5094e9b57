package handler

import (
	"github.com/gin-gonic/gin"
	lendingapp "github.com/library/backend/internal/application/lending"
)

// LoanHandler handles the lending endpoints
type LoanHandler struct {
	BaseHandler
	lendingService *lendingapp.LendingService
	fineService    *lendingapp.FineService
}

// NewLoanHandler creates a new LoanHandler
func NewLoanHandler(lendingService *lendingapp.LendingService, fineService *lendingapp.FineService) *LoanHandler {
	return &LoanHandler{
		lendingService: lendingService,
		fineService:    fineService,
	}
}

// Create lends an available item to a member
//
// @Summary      Create loan
// @Description  Lends an available item to a member
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        request body lendingapp.CreateLoanRequest true "Loan data"
// @Success      201 {object} dto.Response{data=lendingapp.LoanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var req lendingapp.CreateLoanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	loan, err := h.lendingService.CreateLoan(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, loan)
}

// GetByID returns one loan with its item and member
//
// @Summary      Get loan
// @Description  Returns one loan with its item and member
// @Tags         loans
// @Produce      json
// @Param        id path string true "Loan ID"
// @Success      200 {object} dto.Response{data=lendingapp.LoanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/{id} [get]
func (h *LoanHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Loan")
	if !ok {
		return
	}

	loan, err := h.lendingService.GetLoan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// List returns every loan
//
// @Summary      List loans
// @Description  Lists every loan, most recent first
// @Tags         loans
// @Produce      json
// @Success      200 {object} dto.Response{data=[]lendingapp.LoanResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans [get]
func (h *LoanHandler) List(c *gin.Context) {
	loans, err := h.lendingService.ListAllLoans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// ListOpen returns loans not yet returned
//
// @Summary      List open loans
// @Description  Lists loans not yet returned, soonest due first
// @Tags         loans
// @Produce      json
// @Success      200 {object} dto.Response{data=[]lendingapp.LoanResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/open [get]
func (h *LoanHandler) ListOpen(c *gin.Context) {
	loans, err := h.lendingService.ListOpenLoans(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// ListOverdue returns open loans past due on as_of (default today)
//
// @Summary      List overdue loans
// @Description  Lists open loans due before as_of, which defaults to today
// @Tags         loans
// @Produce      json
// @Param        as_of query string false "Reference day, YYYY-MM-DD"
// @Success      200 {object} dto.Response{data=[]lendingapp.LoanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/overdue [get]
func (h *LoanHandler) ListOverdue(c *gin.Context) {
	var filter lendingapp.OverdueFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	loans, err := h.lendingService.ListOverdueLoans(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loans)
}

// Return closes an open loan. A damaged return also issues a fine.
//
// @Summary      Return loan
// @Description  Closes an open loan; a damaged return also issues a fine
// @Tags         loans
// @Accept       json
// @Produce      json
// @Param        id path string true "Loan ID"
// @Param        request body lendingapp.ReturnLoanRequest false "Return details"
// @Success      200 {object} dto.Response{data=lendingapp.LoanResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/{id}/return [put]
func (h *LoanHandler) Return(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Loan")
	if !ok {
		return
	}
	var req lendingapp.ReturnLoanRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	loan, err := h.lendingService.ReturnLoan(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, loan)
}

// Delete removes a loan without fines
//
// @Summary      Delete loan
// @Description  Removes a loan without fines; an open loan puts its item back on the shelf
// @Tags         loans
// @Produce      json
// @Param        id path string true "Loan ID"
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/{id} [delete]
func (h *LoanHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Loan")
	if !ok {
		return
	}

	if err := h.lendingService.DeleteLoan(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListFines returns the fines recorded against a loan
//
// @Summary      List loan fines
// @Description  Lists the fines recorded against a loan, oldest first
// @Tags         loans
// @Produce      json
// @Param        id path string true "Loan ID"
// @Success      200 {object} dto.Response{data=[]lendingapp.FineResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /loans/{id}/fines [get]
func (h *LoanHandler) ListFines(c *gin.Context) {
	id, ok := h.parseID(c, "id", "Loan")
	if !ok {
		return
	}

	fines, err := h.fineService.ListByLoan(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fines)
}
