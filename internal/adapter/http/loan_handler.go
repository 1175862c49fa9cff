package http

import (
	"net/http"

	mw "credit-scoring-backend/internal/adapter/middleware"
	loanDomain "credit-scoring-backend/internal/domain/loan"
	uc "credit-scoring-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct{ uc *uc.Usecase }

func NewLoanHandler(u *uc.Usecase) *LoanHandler { return &LoanHandler{uc: u} }

type applyLoanReq struct {
	Amount         float64 `json:"amount"           validate:"required,gt=0,dec2"`
	Purpose        string  `json:"purpose"          validate:"required"`
	DurationMonths int     `json:"duration_months"  validate:"required,gte=1"`
}

type statusUpdateReq struct {
	Status string  `json:"status" validate:"required,loanstatus"`
	Notes  *string `json:"notes"`
}

// Apply creates a loan for the authenticated user; the owner always comes
// from the token, never from the body.
func (h *LoanHandler) Apply(c echo.Context) error {
	var req applyLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), uc.CreateLoanInput{
		UserEmail:      mw.CurrentEmail(c),
		Amount:         req.Amount,
		Purpose:        req.Purpose,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) MyLoans(c echo.Context) error {
	loans, err := h.uc.ListByOwner(c.Request().Context(), mw.CurrentEmail(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"), mw.CurrentEmail(c), mw.IsAdmin(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) StatusHistory(c echo.Context) error {
	history, err := h.uc.StatusHistory(c.Request().Context(), c.Param("loan_id"), mw.CurrentEmail(c), mw.IsAdmin(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// UpdateStatus appends a ledger entry attributed to the caller.
func (h *LoanHandler) UpdateStatus(c echo.Context) error {
	var req statusUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	status, err := loanDomain.ParseStatus(req.Status)
	if err != nil {
		return writeDomainError(c, err)
	}
	dto, err := h.uc.TransitionStatus(c.Request().Context(), c.Param("loan_id"), status, mw.CurrentEmail(c), req.Notes)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
