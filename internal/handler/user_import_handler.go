package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/service"
	"github.com/schulportal/schulportal-api/internal/utils"
)

// UserImportHandler wires the bulk user import endpoint.
type UserImportHandler struct {
	service service.UserImportService
	logger  zerolog.Logger
}

// NewUserImportHandler constructs the handler.
func NewUserImportHandler(service service.UserImportService, logger zerolog.Logger) *UserImportHandler {
	return &UserImportHandler{
		service: service,
		logger:  logger.With().Str("component", "user_import_handler").Logger(),
	}
}

// Register attaches the import endpoint to the router group.
func (h *UserImportHandler) Register(router fiber.Router) {
	router.Post("", h.importUsers)
}

func (h *UserImportHandler) importUsers(c *fiber.Ctx) error {
	result, err := h.service.Import(c.Context(), currentUserID(c), c.Body())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnauthorized):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidImportDocument):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Msg("user import failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}
	}

	return utils.SendSuccess(c, "users imported", result)
}
