package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// ErrUnauthorized indicates the caller lacks a required dashboard permission.
var ErrUnauthorized = errors.New("missing dashboard permission")

// ErrUserNotFound indicates the referenced user does not exist.
var ErrUserNotFound = errors.New("user not found")

// Students see tasks whose due date passed up to a week ago; older tasks fall
// off the dashboard.
const studentDueDateGrace = 7 * 24 * time.Hour

// TaskService exposes the permission-scoped task listings.
type TaskService interface {
	FindAll(ctx context.Context, userID uint, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error)
	FindAllFinished(ctx context.Context, userID uint, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error)
}

type taskService struct {
	tasks         repository.TaskRepository
	users         repository.UserRepository
	authorization TaskAuthorizationService
	logger        zerolog.Logger
	now           func() time.Time
}

// NewTaskService builds the task listing use case.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, authorization TaskAuthorizationService, logger zerolog.Logger) TaskService {
	return &taskService{
		tasks:         tasks,
		users:         users,
		authorization: authorization,
		logger:        logger.With().Str("component", "task_service").Logger(),
		now:           time.Now,
	}
}

// FindAll lists the caller's open tasks. The student and teacher dashboard
// permissions select mutually exclusive query shapes; the student branch wins
// when a role carries both.
func (s *taskService) FindAll(ctx context.Context, userID uint, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case s.authorization.HasOneOfTaskDashboardPermissions(user, models.PermissionTaskDashboardView):
		return s.findAllForStudent(ctx, user, pagination)
	case s.authorization.HasOneOfTaskDashboardPermissions(user, models.PermissionTaskDashboardTeacherView):
		return s.findAllForTeacher(ctx, user, pagination)
	default:
		return nil, 0, ErrUnauthorized
	}
}

// FindAllFinished lists the tasks that are finished from the caller's point of
// view: archived by the caller, or belonging to a finished course. The status
// shape is chosen per task by entity-level write permission, not by the
// dashboard role.
func (s *taskService) FindAllFinished(ctx context.Context, userID uint, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	if !s.authorization.HasOneOfTaskDashboardPermissions(user,
		models.PermissionTaskDashboardView, models.PermissionTaskDashboardTeacherView) {
		return nil, 0, ErrUnauthorized
	}

	courses, err := s.authorization.GetPermittedCourses(ctx, user, TaskParentRead)
	if err != nil {
		return nil, 0, err
	}

	lessons, err := s.authorization.GetPermittedLessons(ctx, user, courses)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	filter := repository.FinishedTaskFilter{CreatorID: user.ID}

	for _, course := range courses {
		if course.IsFinished(now) {
			filter.FinishedCourseIDs = append(filter.FinishedCourseIDs, course.ID)
		} else {
			filter.OpenCourseIDs = append(filter.OpenCourseIDs, course.ID)
		}
	}
	for _, lesson := range lessons {
		if lesson.Course.IsFinished(now) {
			filter.LessonIDsOfFinishedCourses = append(filter.LessonIDsOfFinishedCourses, lesson.ID)
		} else {
			filter.LessonIDsOfOpenCourses = append(filter.LessonIDsOfOpenCourses, lesson.ID)
		}
	}

	tasks, total, err := s.tasks.FindAllFinishedByParentIDs(ctx, filter, repository.TaskOptions{Pagination: pagination})
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TaskWithStatusResponse, 0, len(tasks))
	for _, task := range tasks {
		var status models.TaskStatus
		if s.authorization.HasTaskPermission(user, task, TaskParentWrite) {
			status = task.CreateTeacherStatusForUser(user)
		} else {
			status = task.CreateStudentStatusForUser(user)
		}
		items = append(items, dto.NewTaskWithStatusResponse(task, status))
	}

	return items, total, nil
}

func (s *taskService) findAllForStudent(ctx context.Context, user models.User, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error) {
	courses, err := s.authorization.GetPermittedCourses(ctx, user, TaskParentRead)
	if err != nil {
		return nil, 0, err
	}

	openCourses := s.filterOpenCourses(courses)

	lessons, err := s.authorization.GetPermittedLessons(ctx, user, openCourses)
	if err != nil {
		return nil, 0, err
	}

	noDraft := false
	dueDateCutoff := s.now().Add(-studentDueDateGrace)
	notFinished := repository.FinishedForUserFilter{UserID: user.ID, Value: false}

	tasks, total, err := s.tasks.FindAllByParentIDs(ctx,
		repository.TaskParentFilter{
			CourseIDs: courseIDs(openCourses),
			LessonIDs: lessonIDs(lessons),
		},
		repository.TaskPredicate{
			Draft:              &noDraft,
			Finished:           &notFinished,
			AfterDueDateOrNone: &dueDateCutoff,
		},
		repository.TaskOptions{
			Order:      repository.SortAsc,
			Pagination: pagination,
		},
	)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TaskWithStatusResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskWithStatusResponse(task, task.CreateStudentStatusForUser(user)))
	}

	return items, total, nil
}

func (s *taskService) findAllForTeacher(ctx context.Context, user models.User, pagination repository.Pagination) ([]dto.TaskWithStatusResponse, int64, error) {
	courses, err := s.authorization.GetPermittedCourses(ctx, user, TaskParentWrite)
	if err != nil {
		return nil, 0, err
	}

	openCourses := s.filterOpenCourses(courses)

	lessons, err := s.authorization.GetPermittedLessons(ctx, user, openCourses)
	if err != nil {
		return nil, 0, err
	}

	creatorID := user.ID
	notFinished := repository.FinishedForUserFilter{UserID: user.ID, Value: false}

	tasks, total, err := s.tasks.FindAllByParentIDs(ctx,
		repository.TaskParentFilter{
			CreatorID: &creatorID,
			CourseIDs: courseIDs(openCourses),
			LessonIDs: lessonIDs(lessons),
		},
		repository.TaskPredicate{
			Finished: &notFinished,
		},
		repository.TaskOptions{
			Order:      repository.SortDesc,
			Pagination: pagination,
		},
	)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TaskWithStatusResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, dto.NewTaskWithStatusResponse(task, task.CreateTeacherStatusForUser(user)))
	}

	return items, total, nil
}

func (s *taskService) loadUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}

	return user, nil
}

func (s *taskService) filterOpenCourses(courses []models.Course) []models.Course {
	now := s.now()
	open := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if !course.IsFinished(now) {
			open = append(open, course)
		}
	}

	return open
}

func courseIDs(courses []models.Course) []uint {
	ids := make([]uint, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}

	return ids
}

func lessonIDs(lessons []models.Lesson) []uint {
	ids := make([]uint, 0, len(lessons))
	for _, lesson := range lessons {
		ids = append(ids, lesson.ID)
	}

	return ids
}
