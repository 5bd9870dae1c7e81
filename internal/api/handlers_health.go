package api

import (
	"net/http"

	"aircare/internal/scheduler"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Tasks   []scheduler.TaskStatus `json:"tasks,omitempty"`
}

// HandleHealth returns server health and background task progress
func (h *Handler) HandleHealth(c echo.Context) error {
	resp := healthResponse{Status: "ok", Version: h.version}
	if h.tasks != nil {
		resp.Tasks = h.tasks.Status()
	}
	return c.JSON(http.StatusOK, resp)
}
