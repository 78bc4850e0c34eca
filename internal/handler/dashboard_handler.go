package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/service"
	"github.com/schulportal/schulportal-api/internal/utils"
)

// DashboardHandler exposes the aggregated dashboard summary.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint to the router group.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/summary", h.summary)
}

func (h *DashboardHandler) summary(c *fiber.Ctx) error {
	summary, err := h.service.GetSummary(c.Context(), currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return utils.SendError(c, fiber.StatusUnauthorized, "missing dashboard permission")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			h.logger.Error().Err(err).Msg("dashboard summary failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "dashboard summary retrieved", summary)
}
