package http

import (
	"net/http"

	mw "credit-scoring-backend/internal/adapter/middleware"
	"credit-scoring-backend/internal/usecase/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(u *auth.Usecase) *AuthHandler { return &AuthHandler{uc: u} }

type registerReq struct {
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password"  validate:"required,min=8"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, false)
}

// CreateAdmin mirrors the bootstrap endpoint of the original system; deploys
// should protect or disable it outside development.
func (h *AuthHandler) CreateAdmin(c echo.Context) error {
	return h.register(c, true)
}

func (h *AuthHandler) register(c echo.Context, admin bool) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := auth.RegisterInput{Email: req.Email, FullName: req.FullName, Password: req.Password}
	var (
		dto *auth.UserDTO
		err error
	)
	if admin {
		dto, err = h.uc.RegisterAdmin(c.Request().Context(), in)
	} else {
		dto, err = h.uc.Register(c.Request().Context(), in)
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Token is the password login endpoint. It accepts form fields named
// username/password for OAuth2 password-flow client compatibility; the
// username is the email.
func (h *AuthHandler) Token(c echo.Context) error {
	email := c.FormValue("username")
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing username or password"})
	}

	token, err := h.uc.Login(c.Request().Context(), email, password)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	dto, err := h.uc.Me(c.Request().Context(), mw.CurrentEmail(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
