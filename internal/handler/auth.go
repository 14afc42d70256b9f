package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/utils"
)

// AuthHandler issues operator tokens for the migration endpoints. There is
// a single operator identity, configured as a bcrypt hash in the
// environment; no account table backs the admin API.
type AuthHandler struct {
	Cfg config.ServerConfig
}

type tokenRequest struct {
	Password string `json:"password"`
}

// Token handles POST /v1/auth/token. A correct operator password yields a
// short-lived HS256 JWT.
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}
	if !utils.VerifyPassword(h.Cfg.OperatorPasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	tok, err := utils.NewOperatorToken(h.Cfg.JWTSecret, "operator", h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"expires_at":   tok.Exp,
	})
}
