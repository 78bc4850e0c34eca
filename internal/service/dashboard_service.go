package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// DashboardService aggregates per-user task counts, cached in Redis.
type DashboardService interface {
	GetSummary(ctx context.Context, userID uint) (dto.DashboardSummaryResponse, error)
}

type dashboardService struct {
	tasks    TaskService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator. A nil cache disables
// caching.
func NewDashboardService(tasks TaskService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		tasks:    tasks,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) GetSummary(ctx context.Context, userID uint) (dto.DashboardSummaryResponse, error) {
	cacheKey := fmt.Sprintf("dashboard:user:%d", userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Uint("user_id", userID).Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	// Only the totals are needed; a single-item page keeps the result sets
	// small.
	probe := repository.Pagination{Limit: 1}

	_, open, err := s.tasks.FindAll(ctx, userID, probe)
	if err != nil {
		return dto.DashboardSummaryResponse{}, err
	}

	_, finished, err := s.tasks.FindAllFinished(ctx, userID, probe)
	if err != nil {
		return dto.DashboardSummaryResponse{}, err
	}

	response := dto.DashboardSummaryResponse{
		OpenTasks:     open,
		FinishedTasks: finished,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
