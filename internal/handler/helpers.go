package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/schulportal/schulportal-api/internal/middleware"
	"github.com/schulportal/schulportal-api/internal/repository"
)

const defaultPageLimit = 20

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := strings.TrimSpace(c.Params(name))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return uint(parsed), nil
}

func parsePagination(c *fiber.Ctx) (repository.Pagination, error) {
	skip, err := parseQueryInt(c, "skip")
	if err != nil || skip < 0 {
		return repository.Pagination{}, fmt.Errorf("invalid skip parameter")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return repository.Pagination{}, fmt.Errorf("invalid limit parameter")
	}
	if limit == 0 {
		limit = defaultPageLimit
	}

	return repository.Pagination{Skip: skip, Limit: limit}, nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := middleware.CurrentUserID(c)
	return id
}
