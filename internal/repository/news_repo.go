package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

// NewsTargetFilter selects news for one target model and the ids the caller
// may see for it.
type NewsTargetFilter struct {
	TargetModel string
	TargetIDs   []uint
}

// NewsPredicate splits published from unpublished news at a reference time.
type NewsPredicate struct {
	Unpublished bool
	Reference   time.Time
}

// NewsRepository defines persistence operations for news.
type NewsRepository interface {
	FindAllByTargets(ctx context.Context, targets []NewsTargetFilter, predicate NewsPredicate, pagination Pagination) ([]models.News, int64, error)
	GetByID(ctx context.Context, id uint) (models.News, error)
	Create(ctx context.Context, news *models.News) error
	Update(ctx context.Context, news *models.News) error
	Delete(ctx context.Context, id uint) error
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository instantiates a GORM-backed news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

func (r *newsRepository) FindAllByTargets(ctx context.Context, targets []NewsTargetFilter, predicate NewsPredicate, pagination Pagination) ([]models.News, int64, error) {
	conditions := []string{}
	args := []interface{}{}

	for _, target := range targets {
		if target.TargetModel == models.NewsTargetSchool {
			conditions = append(conditions, "target_model = ?")
			args = append(args, target.TargetModel)
			continue
		}
		if len(target.TargetIDs) == 0 {
			continue
		}
		conditions = append(conditions, "(target_model = ? AND target_id IN ?)")
		args = append(args, target.TargetModel, target.TargetIDs)
	}

	if len(conditions) == 0 {
		return []models.News{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.News{}).
		Where(strings.Join(conditions, " OR "), args...)

	if predicate.Unpublished {
		query = query.Where("display_at > ?", predicate.Reference)
	} else {
		query = query.Where("display_at <= ?", predicate.Reference)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("display_at DESC")
	if pagination.Skip > 0 {
		query = query.Offset(pagination.Skip)
	}
	if pagination.Limit > 0 {
		query = query.Limit(pagination.Limit)
	}

	var news []models.News
	if err := query.Preload("Creator").Find(&news).Error; err != nil {
		return nil, 0, err
	}

	return news, total, nil
}

func (r *newsRepository) GetByID(ctx context.Context, id uint) (models.News, error) {
	var news models.News
	if err := r.db.WithContext(ctx).Preload("Creator").First(&news, id).Error; err != nil {
		return models.News{}, err
	}

	return news, nil
}

func (r *newsRepository) Create(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Create(news).Error
}

func (r *newsRepository) Update(ctx context.Context, news *models.News) error {
	return r.db.WithContext(ctx).Save(news).Error
}

func (r *newsRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.News{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
