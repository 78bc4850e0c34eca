package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

// LessonFilter narrows a lesson query. A nil Hidden matches lessons
// regardless of visibility.
type LessonFilter struct {
	Hidden *bool
}

// LessonRepository defines persistence operations for lessons.
type LessonRepository interface {
	FindAllByCourseIDs(ctx context.Context, courseIDs []uint, filter LessonFilter) ([]models.Lesson, error)
}

type lessonRepository struct {
	db *gorm.DB
}

// NewLessonRepository instantiates a GORM-backed lesson repository.
func NewLessonRepository(db *gorm.DB) LessonRepository {
	return &lessonRepository{db: db}
}

func (r *lessonRepository) FindAllByCourseIDs(ctx context.Context, courseIDs []uint, filter LessonFilter) ([]models.Lesson, error) {
	if len(courseIDs) == 0 {
		return []models.Lesson{}, nil
	}

	query := r.db.WithContext(ctx).
		Preload("Course").
		Where("course_id IN ?", courseIDs)

	if filter.Hidden != nil {
		query = query.Where("hidden = ?", *filter.Hidden)
	}

	var lessons []models.Lesson
	if err := query.Find(&lessons).Error; err != nil {
		return nil, err
	}

	return lessons, nil
}
