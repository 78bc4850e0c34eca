package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// ErrTeamNotFound indicates the requested team does not exist.
var ErrTeamNotFound = errors.New("team not found")

// TeamService exposes team listing and creation.
type TeamService interface {
	FindAll(ctx context.Context, params dto.TeamListRequest) ([]dto.TeamResponse, int64, error)
	Get(ctx context.Context, id uint) (dto.TeamResponse, error)
	Create(ctx context.Context, ownerID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error)
}

type teamService struct {
	teams     repository.TeamRepository
	users     repository.UserRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTeamService builds the team service.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) TeamService {
	return &teamService{
		teams:     teams,
		users:     users,
		validator: validate,
		logger:    logger.With().Str("component", "team_service").Logger(),
	}
}

func (s *teamService) FindAll(ctx context.Context, params dto.TeamListRequest) ([]dto.TeamResponse, int64, error) {
	if err := s.validator.Struct(params); err != nil {
		return nil, 0, err
	}

	teams, total, err := s.teams.FindAll(ctx, params.Name, repository.Pagination{Skip: params.Skip, Limit: params.Limit})
	if err != nil {
		return nil, 0, err
	}

	return dto.NewTeamResponseSlice(teams), total, nil
}

func (s *teamService) Get(ctx context.Context, id uint) (dto.TeamResponse, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrTeamNotFound
		}
		return dto.TeamResponse{}, err
	}

	return dto.NewTeamResponse(team), nil
}

func (s *teamService) Create(ctx context.Context, ownerID uint, payload dto.TeamCreateRequest) (dto.TeamResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeamResponse{}, err
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.TeamResponse{}, ErrUserNotFound
		}
		return dto.TeamResponse{}, err
	}

	members := make([]models.User, 0, len(payload.MemberIDs))
	for _, memberID := range payload.MemberIDs {
		member, err := s.users.FindByID(ctx, memberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.TeamResponse{}, ErrUserNotFound
			}
			return dto.TeamResponse{}, err
		}
		members = append(members, member)
	}

	team := models.Team{
		Name:    payload.Name,
		OwnerID: owner.ID,
		Members: members,
	}

	if err := s.teams.Create(ctx, &team); err != nil {
		return dto.TeamResponse{}, err
	}

	s.logger.Info().Uint("team_id", team.ID).Msg("team created")

	return dto.NewTeamResponse(team), nil
}
