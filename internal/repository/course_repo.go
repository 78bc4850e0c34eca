package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	FindAllByUserID(ctx context.Context, userID uint) ([]models.Course, error)
	FindAllForTeacher(ctx context.Context, userID uint) ([]models.Course, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

const (
	studentCoursesSubquery      = "(SELECT course_id FROM course_students WHERE user_id = ?)"
	teacherCoursesSubquery      = "(SELECT course_id FROM course_teachers WHERE user_id = ?)"
	substitutionCoursesSubquery = "(SELECT course_id FROM course_substitution_teachers WHERE user_id = ?)"
)

// FindAllByUserID returns all courses where the user appears in any of the
// three membership relations.
func (r *courseRepository) FindAllByUserID(ctx context.Context, userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := preloadCourseMembers(r.db.WithContext(ctx)).
		Where("id IN "+studentCoursesSubquery+" OR id IN "+teacherCoursesSubquery+" OR id IN "+substitutionCoursesSubquery,
			userID, userID, userID).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

// FindAllForTeacher returns all courses where the user is a teacher or a
// substitution teacher.
func (r *courseRepository) FindAllForTeacher(ctx context.Context, userID uint) ([]models.Course, error) {
	var courses []models.Course
	err := preloadCourseMembers(r.db.WithContext(ctx)).
		Where("id IN "+teacherCoursesSubquery+" OR id IN "+substitutionCoursesSubquery, userID, userID).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := preloadCourseMembers(r.db.WithContext(ctx)).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func preloadCourseMembers(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Students").
		Preload("Teachers").
		Preload("SubstitutionTeachers")
}
