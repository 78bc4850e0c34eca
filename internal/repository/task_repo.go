package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

// TaskParentFilter limits tasks to a permitted set of parents. The clauses
// are combined with OR; an unset clause contributes nothing. A filter with no
// clause at all matches nothing.
type TaskParentFilter struct {
	CreatorID *uint
	CourseIDs []uint
	LessonIDs []uint
}

// FinishedForUserFilter matches tasks by whether the given user archived them.
type FinishedForUserFilter struct {
	UserID uint
	Value  bool
}

// TaskPredicate narrows a parent-scoped task query.
type TaskPredicate struct {
	Draft              *bool
	Finished           *FinishedForUserFilter
	AfterDueDateOrNone *time.Time
}

// TaskOptions carries sorting and pagination for task listings. Order applies
// to the due date.
type TaskOptions struct {
	Order      SortOrder
	Pagination Pagination
}

// FinishedTaskFilter describes the single query shape of the finished-task
// listing: tasks of finished courses count as finished for everyone, tasks in
// the caller's open scope only when the caller archived them.
type FinishedTaskFilter struct {
	CreatorID                  uint
	OpenCourseIDs              []uint
	FinishedCourseIDs          []uint
	LessonIDsOfOpenCourses     []uint
	LessonIDsOfFinishedCourses []uint
}

// TaskRepository defines the persistence contract consumed by the task
// listing use case.
type TaskRepository interface {
	FindAllByParentIDs(ctx context.Context, filter TaskParentFilter, predicate TaskPredicate, options TaskOptions) ([]models.Task, int64, error)
	FindAllFinishedByParentIDs(ctx context.Context, filter FinishedTaskFilter, options TaskOptions) ([]models.Task, int64, error)
	GetByID(ctx context.Context, id uint) (models.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository instantiates a GORM-backed task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

const finishedForUserSubquery = "(SELECT task_id FROM task_finished_users WHERE user_id = ?)"

func (r *taskRepository) FindAllByParentIDs(ctx context.Context, filter TaskParentFilter, predicate TaskPredicate, options TaskOptions) ([]models.Task, int64, error) {
	scope, args, ok := buildParentScope(filter)
	if !ok {
		return []models.Task{}, 0, nil
	}

	query := r.db.WithContext(ctx).Model(&models.Task{}).Where(scope, args...)

	if predicate.Draft != nil {
		query = query.Where("private = ?", *predicate.Draft)
	} else if filter.CreatorID != nil {
		// Drafts stay visible to their creator only.
		query = query.Where("private = ? OR creator_id = ?", false, *filter.CreatorID)
	} else {
		query = query.Where("private = ?", false)
	}

	if predicate.AfterDueDateOrNone != nil {
		query = query.Where("due_date IS NULL OR due_date > ?", *predicate.AfterDueDateOrNone)
	}

	if predicate.Finished != nil {
		if predicate.Finished.Value {
			query = query.Where("id IN "+finishedForUserSubquery, predicate.Finished.UserID)
		} else {
			query = query.Where("id NOT IN "+finishedForUserSubquery, predicate.Finished.UserID)
		}
	}

	return r.countAndFind(query, options)
}

func (r *taskRepository) FindAllFinishedByParentIDs(ctx context.Context, filter FinishedTaskFilter, options TaskOptions) ([]models.Task, int64, error) {
	creatorID := filter.CreatorID

	openScope, openArgs, _ := buildParentScope(TaskParentFilter{
		CreatorID: &creatorID,
		CourseIDs: filter.OpenCourseIDs,
		LessonIDs: filter.LessonIDsOfOpenCourses,
	})

	conditions := []string{"((" + openScope + ") AND id IN " + finishedForUserSubquery + ")"}
	args := append(openArgs, creatorID)

	if closedScope, closedArgs, ok := buildParentScope(TaskParentFilter{
		CourseIDs: filter.FinishedCourseIDs,
		LessonIDs: filter.LessonIDsOfFinishedCourses,
	}); ok {
		conditions = append(conditions, "("+closedScope+")")
		args = append(args, closedArgs...)
	}

	query := r.db.WithContext(ctx).Model(&models.Task{}).
		Where(strings.Join(conditions, " OR "), args...).
		Where("private = ? OR creator_id = ?", false, creatorID)

	if options.Order == "" {
		options.Order = SortDesc
	}

	return r.countAndFind(query, options)
}

func (r *taskRepository) GetByID(ctx context.Context, id uint) (models.Task, error) {
	var task models.Task
	err := preloadTaskGraph(r.db.WithContext(ctx)).First(&task, id).Error
	if err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (r *taskRepository) countAndFind(query *gorm.DB, options TaskOptions) ([]models.Task, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if options.Order == SortDesc {
		query = query.Order("due_date DESC")
	} else {
		query = query.Order("due_date ASC")
	}

	if options.Pagination.Skip > 0 {
		query = query.Offset(options.Pagination.Skip)
	}
	if options.Pagination.Limit > 0 {
		query = query.Limit(options.Pagination.Limit)
	}

	var tasks []models.Task
	if err := preloadTaskGraph(query).Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// preloadTaskGraph loads everything the status aggregation reads: the course
// memberships and the submissions with their students.
func preloadTaskGraph(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Course").
		Preload("Course.Students").
		Preload("Course.Teachers").
		Preload("Course.SubstitutionTeachers").
		Preload("Lesson").
		Preload("Submissions").
		Preload("Submissions.Student")
}

func buildParentScope(filter TaskParentFilter) (string, []interface{}, bool) {
	conditions := []string{}
	args := []interface{}{}

	if filter.CreatorID != nil {
		conditions = append(conditions, "creator_id = ?")
		args = append(args, *filter.CreatorID)
	}
	if len(filter.CourseIDs) > 0 {
		// Tasks below a lesson are only reachable through the permitted
		// lesson set, so hidden lessons keep their tasks hidden.
		conditions = append(conditions, "(course_id IN ? AND lesson_id IS NULL)")
		args = append(args, filter.CourseIDs)
	}
	if len(filter.LessonIDs) > 0 {
		conditions = append(conditions, "lesson_id IN ?")
		args = append(args, filter.LessonIDs)
	}

	if len(conditions) == 0 {
		return "", nil, false
	}

	return strings.Join(conditions, " OR "), args, true
}
