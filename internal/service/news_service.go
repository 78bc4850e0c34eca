package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/observability"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// ErrNewsNotFound indicates the requested news item does not exist.
var ErrNewsNotFound = errors.New("news not found")

// NewsService publishes announcements and lists them scoped to the targets
// the caller may see.
type NewsService interface {
	FindAllForUser(ctx context.Context, userID uint, params dto.NewsListRequest) ([]dto.NewsResponse, int64, error)
	Get(ctx context.Context, id uint, userID uint) (dto.NewsResponse, error)
	Create(ctx context.Context, userID uint, payload dto.NewsCreateRequest) (dto.NewsResponse, error)
	Update(ctx context.Context, id uint, userID uint, payload dto.NewsUpdateRequest) (dto.NewsResponse, error)
	Delete(ctx context.Context, id uint, userID uint) error
}

type newsEvent struct {
	NewsID      uint      `json:"news_id"`
	Title       string    `json:"title"`
	TargetModel string    `json:"target_model"`
	TargetID    uint      `json:"target_id"`
	PublishedAt time.Time `json:"published_at"`
}

type newsService struct {
	news          repository.NewsRepository
	users         repository.UserRepository
	teams         repository.TeamRepository
	authorization TaskAuthorizationService
	redis         *redis.Client
	redisChannel  string
	nats          *nats.Conn
	natsSubject   string
	validator     *validator.Validate
	sanitizer     *bluemonday.Policy
	logger        zerolog.Logger
	tracer        trace.Tracer
	now           func() time.Time
}

// NewNewsService builds the news service. Redis and NATS connections are
// optional; without them publish events stay local.
func NewNewsService(news repository.NewsRepository, users repository.UserRepository, teams repository.TeamRepository, authorization TaskAuthorizationService, redisClient *redis.Client, natsConn *nats.Conn, channelBase string, validate *validator.Validate, logger zerolog.Logger) NewsService {
	channel := ""
	subject := ""
	if channelBase != "" {
		channel = channelBase + ":news"
		subject = strings.ReplaceAll(channelBase, ":", ".") + ".news"
	}

	return &newsService{
		news:          news,
		users:         users,
		teams:         teams,
		authorization: authorization,
		redis:         redisClient,
		redisChannel:  channel,
		nats:          natsConn,
		natsSubject:   subject,
		validator:     validate,
		sanitizer:     bluemonday.UGCPolicy(),
		logger:        logger.With().Str("component", "news_service").Logger(),
		tracer:        otel.Tracer("github.com/schulportal/schulportal-api/internal/service/news"),
		now:           time.Now,
	}
}

// FindAllForUser lists news across all targets the caller may read: school
// news, news of permitted courses and news of the caller's teams. Listing
// unpublished news requires the edit permission.
func (s *newsService) FindAllForUser(ctx context.Context, userID uint, params dto.NewsListRequest) ([]dto.NewsResponse, int64, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, 0, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	required := models.PermissionNewsView
	if params.Unpublished {
		required = models.PermissionNewsEdit
	}
	if !user.HasPermission(required) {
		return nil, 0, ErrUnauthorized
	}

	targets, err := s.permittedTargets(ctx, user)
	if err != nil {
		return nil, 0, err
	}

	news, total, err := s.news.FindAllByTargets(ctx, targets,
		repository.NewsPredicate{Unpublished: params.Unpublished, Reference: s.now()},
		repository.Pagination{Skip: params.Skip, Limit: params.Limit},
	)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewNewsResponseSlice(news), total, nil
}

func (s *newsService) Get(ctx context.Context, id uint, userID uint) (dto.NewsResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return dto.NewsResponse{}, err
	}

	news, err := s.news.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NewsResponse{}, ErrNewsNotFound
		}
		return dto.NewsResponse{}, err
	}

	// Unpublished news is only visible to editors.
	required := models.PermissionNewsView
	if !news.IsPublished(s.now()) {
		required = models.PermissionNewsEdit
	}
	if !user.HasPermission(required) {
		return dto.NewsResponse{}, ErrUnauthorized
	}

	return dto.NewNewsResponse(news), nil
}

func (s *newsService) Create(ctx context.Context, userID uint, payload dto.NewsCreateRequest) (dto.NewsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NewsResponse{}, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return dto.NewsResponse{}, err
	}
	if !user.HasPermission(models.PermissionNewsEdit) {
		return dto.NewsResponse{}, ErrUnauthorized
	}

	body := strings.TrimSpace(s.sanitizer.Sanitize(payload.Body))
	if body == "" {
		return dto.NewsResponse{}, errors.New("news body empty after sanitization")
	}

	displayAt := payload.DisplayAt
	if displayAt.IsZero() {
		displayAt = s.now()
	}

	spanCtx, span := s.tracer.Start(ctx, "news.create", trace.WithAttributes(
		attribute.String("news.target_model", payload.TargetModel),
		attribute.Int("news.target_id", int(payload.TargetID)),
	))
	defer span.End()

	news := models.News{
		Title:       payload.Title,
		Body:        body,
		DisplayAt:   displayAt,
		TargetModel: payload.TargetModel,
		TargetID:    payload.TargetID,
		CreatorID:   user.ID,
	}

	if err := s.news.Create(spanCtx, &news); err != nil {
		span.RecordError(err)
		return dto.NewsResponse{}, err
	}

	if err := s.publishEvent(spanCtx, news); err != nil {
		s.logger.Warn().Err(err).Uint("news_id", news.ID).Msg("failed to publish news event")
	}

	observability.NewsPublishedTotal().WithLabelValues(news.TargetModel).Inc()
	s.logger.Info().Uint("news_id", news.ID).Str("target_model", news.TargetModel).Msg("news created")

	return dto.NewNewsResponse(news), nil
}

func (s *newsService) Update(ctx context.Context, id uint, userID uint, payload dto.NewsUpdateRequest) (dto.NewsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NewsResponse{}, err
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return dto.NewsResponse{}, err
	}
	if !user.HasPermission(models.PermissionNewsEdit) {
		return dto.NewsResponse{}, ErrUnauthorized
	}

	news, err := s.news.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NewsResponse{}, ErrNewsNotFound
		}
		return dto.NewsResponse{}, err
	}

	if payload.Title != nil {
		news.Title = *payload.Title
	}
	if payload.Body != nil {
		body := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Body))
		if body == "" {
			return dto.NewsResponse{}, errors.New("news body empty after sanitization")
		}
		news.Body = body
	}
	if payload.DisplayAt != nil {
		news.DisplayAt = *payload.DisplayAt
	}

	if err := s.news.Update(ctx, &news); err != nil {
		return dto.NewsResponse{}, err
	}

	s.logger.Info().Uint("news_id", news.ID).Msg("news updated")

	return dto.NewNewsResponse(news), nil
}

func (s *newsService) Delete(ctx context.Context, id uint, userID uint) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !user.HasPermission(models.PermissionNewsEdit) {
		return ErrUnauthorized
	}

	if err := s.news.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNewsNotFound
		}
		return err
	}

	s.logger.Info().Uint("news_id", id).Msg("news deleted")
	return nil
}

func (s *newsService) permittedTargets(ctx context.Context, user models.User) ([]repository.NewsTargetFilter, error) {
	courses, err := s.authorization.GetPermittedCourses(ctx, user, TaskParentRead)
	if err != nil {
		return nil, err
	}

	teams, err := s.teams.FindAllByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	teamIDs := make([]uint, 0, len(teams))
	for _, team := range teams {
		teamIDs = append(teamIDs, team.ID)
	}

	return []repository.NewsTargetFilter{
		{TargetModel: models.NewsTargetSchool},
		{TargetModel: models.NewsTargetCourse, TargetIDs: courseIDs(courses)},
		{TargetModel: models.NewsTargetTeam, TargetIDs: teamIDs},
	}, nil
}

func (s *newsService) publishEvent(ctx context.Context, news models.News) error {
	event := newsEvent{
		NewsID:      news.ID,
		Title:       news.Title,
		TargetModel: news.TargetModel,
		TargetID:    news.TargetID,
		PublishedAt: s.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if s.redis != nil && s.redisChannel != "" {
		if err := s.redis.Publish(ctx, s.redisChannel, payload).Err(); err != nil {
			return err
		}
	}

	if s.nats != nil && s.natsSubject != "" {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			return err
		}
	}

	return nil
}

func (s *newsService) loadUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}
