package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/warranty-migration/internal/config"
	"github.com/iliyamo/warranty-migration/internal/service"
)

// MigrationHandler exposes the migration engine over the admin API. The
// endpoints trigger runs and report results; they are JSON-only and sit
// behind the operator-token middleware.
type MigrationHandler struct {
	Svc *service.Migration
	Cfg config.ServerConfig
}

type runRequest struct {
	InputPath string `json:"input_path"`
	FixUp     bool   `json:"fixup"`
}

// Trigger handles POST /v1/migrations: it runs the pipeline synchronously
// against the configured (or request-supplied) export and returns the
// statistics. A concurrent run answers 409; a fatal store error answers
// 500 with the partial statistics collected so far.
func (h *MigrationHandler) Trigger(c echo.Context) error {
	var req runRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	input := req.InputPath
	if input == "" {
		input = h.Cfg.InputPath
	}
	if input == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no legacy export configured; set input_path"})
	}

	stats, err := h.Svc.Execute(c.Request().Context(), input, req.FixUp)
	switch {
	case errors.Is(err, service.ErrRunInProgress):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":      err.Error(),
			"statistics": stats,
		})
	}
	return c.JSON(http.StatusOK, stats)
}

// Latest handles GET /v1/migrations/latest: the most recent run's
// statistics snapshot, or 404 when no run has completed yet.
func (h *MigrationHandler) Latest(c echo.Context) error {
	raw, err := h.Svc.LastRun(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not read snapshot"})
	}
	if raw == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no completed runs"})
	}
	return c.JSONBlob(http.StatusOK, raw)
}
