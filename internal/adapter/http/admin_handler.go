package http

import (
	"net/http"

	mw "credit-scoring-backend/internal/adapter/middleware"
	loanDomain "credit-scoring-backend/internal/domain/loan"
	uc "credit-scoring-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// AdminHandler serves the review-side endpoints. Routes are mounted behind
// RequireAdmin; handlers here never re-check the role.
type AdminHandler struct{ uc *uc.Usecase }

func NewAdminHandler(u *uc.Usecase) *AdminHandler { return &AdminHandler{uc: u} }

func (h *AdminHandler) ListLoans(c echo.Context) error {
	var filter *loanDomain.Status
	if raw := c.QueryParam("status"); raw != "" {
		s, err := loanDomain.ParseStatus(raw)
		if err != nil {
			return writeDomainError(c, err)
		}
		filter = &s
	}
	loans, err := h.uc.ListAll(c.Request().Context(), filter)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *AdminHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"), mw.CurrentEmail(c), true)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Review is the admin status transition; it shares the loan handler's
// request shape but attributes the change to the reviewing admin.
func (h *AdminHandler) Review(c echo.Context) error {
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

func (h *AdminHandler) CalculateScore(c echo.Context) error {
	dto, err := h.uc.ComputeAndStoreScore(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AdminHandler) ScoreDetails(c echo.Context) error {
	b, err := h.uc.ScoreBreakdown(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *AdminHandler) Stats(c echo.Context) error {
	st, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}
