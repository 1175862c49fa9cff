package http

import (
	"errors"
	"net/http"

	loanDomain "credit-scoring-backend/internal/domain/loan"
	userDomain "credit-scoring-backend/internal/domain/user"
	"credit-scoring-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

// writeDomainError translates the domain error taxonomy into HTTP responses.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, userDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, loanDomain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrUpdateFailed):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "update had no effect"})
	case errors.Is(err, userDomain.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "incorrect email or password"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
