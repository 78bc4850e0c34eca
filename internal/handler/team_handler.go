package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/service"
	"github.com/schulportal/schulportal-api/internal/utils"
)

// TeamHandler wires the team HTTP routes.
type TeamHandler struct {
	service   service.TeamService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeamHandler constructs the handler.
func NewTeamHandler(service service.TeamService, validator *validator.Validate, logger zerolog.Logger) *TeamHandler {
	return &TeamHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "team_handler").Logger(),
	}
}

// Register attaches team endpoints to the router group.
func (h *TeamHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
}

func (h *TeamHandler) list(c *fiber.Ctx) error {
	params := dto.TeamListRequest{}
	if err := c.QueryParser(&params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, total, err := h.service.FindAll(c.Context(), params)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "teams retrieved", dto.TeamListResponse{Items: items, Total: total})
}

func (h *TeamHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	team, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "team retrieved", team)
}

func (h *TeamHandler) create(c *fiber.Ctx) error {
	payload := dto.TeamCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	team, err := h.service.Create(c.Context(), currentUserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "team created", team)
}

func (h *TeamHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTeamNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "team not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		h.logger.Error().Err(err).Msg("team request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
