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

// NewsHandler wires the news HTTP routes.
type NewsHandler struct {
	service   service.NewsService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewNewsHandler constructs the handler.
func NewNewsHandler(service service.NewsService, validator *validator.Validate, logger zerolog.Logger) *NewsHandler {
	return &NewsHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "news_handler").Logger(),
	}
}

// Register attaches news endpoints to the router group.
func (h *NewsHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Patch("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *NewsHandler) list(c *fiber.Ctx) error {
	params := dto.NewsListRequest{}
	if err := c.QueryParser(&params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(params); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, total, err := h.service.FindAllForUser(c.Context(), currentUserID(c), params)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "news retrieved", dto.NewsListResponse{Items: items, Total: total})
}

func (h *NewsHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Get(c.Context(), id, currentUserID(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "news retrieved", item)
}

func (h *NewsHandler) create(c *fiber.Ctx) error {
	payload := dto.NewsCreateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Create(c.Context(), currentUserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "news created", item)
}

func (h *NewsHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	payload := dto.NewsUpdateRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Update(c.Context(), id, currentUserID(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "news updated", item)
}

func (h *NewsHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, currentUserID(c)); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "news deleted", nil)
}

func (h *NewsHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNewsNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "news not found")
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		h.logger.Error().Err(err).Msg("news request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
