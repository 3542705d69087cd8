package handler

import (
	"dinein/internal/delivery/http/response"
	"dinein/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports liveness and the session phase.
type HealthHandler struct {
	session usecase.SessionUsecase
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(session usecase.SessionUsecase) *HealthHandler {
	return &HealthHandler{session: session}
}

func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return response.OK(c, map[string]string{
		"status": "ok",
		"phase":  h.session.State().Phase.String(),
	})
}
