package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

// TeamRepository defines persistence operations for teams.
type TeamRepository interface {
	FindAll(ctx context.Context, nameFilter string, pagination Pagination) ([]models.Team, int64, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]models.Team, error)
	GetByID(ctx context.Context, id uint) (models.Team, error)
	Create(ctx context.Context, team *models.Team) error
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository instantiates a GORM-backed team repository.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) FindAll(ctx context.Context, nameFilter string, pagination Pagination) ([]models.Team, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Team{})

	if nameFilter != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(nameFilter)) + "%"
		query = query.Where("LOWER(name) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("name ASC")
	if pagination.Skip > 0 {
		query = query.Offset(pagination.Skip)
	}
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit)
	}

	var teams []models.Team
	if err := query.Preload("Members").Find(&teams).Error; err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

func (r *teamRepository) FindAllByUserID(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := r.db.WithContext(ctx).
		Preload("Members").
		Where("owner_id = ? OR id IN (SELECT team_id FROM team_members WHERE user_id = ?)", userID, userID).
		Find(&teams).Error
	if err != nil {
		return nil, err
	}

	return teams, nil
}

func (r *teamRepository) GetByID(ctx context.Context, id uint) (models.Team, error) {
	var team models.Team
	if err := r.db.WithContext(ctx).Preload("Members").First(&team, id).Error; err != nil {
		return models.Team{}, err
	}

	return team, nil
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}
