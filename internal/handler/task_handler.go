package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/observability"
	"github.com/schulportal/schulportal-api/internal/repository"
	"github.com/schulportal/schulportal-api/internal/service"
	"github.com/schulportal/schulportal-api/internal/utils"
)

// TaskHandler wires the task dashboard HTTP routes.
type TaskHandler struct {
	service service.TaskService
	logger  zerolog.Logger
}

// NewTaskHandler constructs the handler.
func NewTaskHandler(service service.TaskService, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		logger:  logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register attaches task endpoints to the router group.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/finished", h.listFinished)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	pagination, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, total, err := h.service.FindAll(c.Context(), currentUserID(c), pagination)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.TaskListings().WithLabelValues("open").Inc()
	return utils.SendSuccess(c, "tasks retrieved", h.listResponse(items, total, pagination))
}

func (h *TaskHandler) listFinished(c *fiber.Ctx) error {
	pagination, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	items, total, err := h.service.FindAllFinished(c.Context(), currentUserID(c), pagination)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.TaskListings().WithLabelValues("finished").Inc()
	return utils.SendSuccess(c, "finished tasks retrieved", h.listResponse(items, total, pagination))
}

func (h *TaskHandler) listResponse(items []dto.TaskWithStatusResponse, total int64, pagination repository.Pagination) dto.TaskListResponse {
	return dto.TaskListResponse{
		Items: items,
		Total: total,
		Skip:  pagination.Skip,
		Limit: pagination.Limit,
	}
}

func (h *TaskHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return utils.SendError(c, fiber.StatusUnauthorized, "missing dashboard permission")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	default:
		h.logger.Error().Err(err).Msg("task listing failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
