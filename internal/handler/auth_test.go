package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/utils"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := utils.HashPassword("migrate-me", bcrypt.MinCost)
	require.NoError(t, err)
	return &AuthHandler{Cfg: config.ServerConfig{
		JWTSecret:            "test-secret",
		AccessTTLMin:         5,
		OperatorPasswordHash: hash,
	}}
}

func postToken(h *AuthHandler, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h.Token(e.NewContext(req, rec))
	return rec
}

func TestTokenIssuesJWTForValidPassword(t *testing.T) {
	rec := postToken(newAuthHandler(t), `{"password":"migrate-me"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")
}

func TestTokenRejectsBadPassword(t *testing.T) {
	rec := postToken(newAuthHandler(t), `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTokenRequiresPassword(t *testing.T) {
	rec := postToken(newAuthHandler(t), `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
