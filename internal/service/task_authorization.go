package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

// TaskParentPermission is the access level required on a task's parent chain.
type TaskParentPermission int

const (
	// TaskParentRead grants visibility of published content.
	TaskParentRead TaskParentPermission = iota
	// TaskParentWrite grants teacher-level access including hidden content.
	TaskParentWrite
)

// TaskAuthorizationService computes the set of parent entities a user may act
// on and answers single-entity permission checks.
type TaskAuthorizationService interface {
	GetPermittedCourses(ctx context.Context, user models.User, permission TaskParentPermission) ([]models.Course, error)
	GetPermittedLessons(ctx context.Context, user models.User, courses []models.Course) ([]models.Lesson, error)
	HasTaskPermission(user models.User, task models.Task, permission TaskParentPermission) bool
	HasOneOfTaskDashboardPermissions(user models.User, permissions ...string) bool
}

type taskAuthorizationService struct {
	courses repository.CourseRepository
	lessons repository.LessonRepository
	logger  zerolog.Logger
	now     func() time.Time
}

// NewTaskAuthorizationService builds the authorization service.
func NewTaskAuthorizationService(courses repository.CourseRepository, lessons repository.LessonRepository, logger zerolog.Logger) TaskAuthorizationService {
	return &taskAuthorizationService{
		courses: courses,
		lessons: lessons,
		logger:  logger.With().Str("component", "task_authorization").Logger(),
		now:     time.Now,
	}
}

// GetPermittedCourses returns the courses the user may act on at the given
// level. The result is never nil; a user without memberships gets an empty
// slice.
func (s *taskAuthorizationService) GetPermittedCourses(ctx context.Context, user models.User, permission TaskParentPermission) ([]models.Course, error) {
	var (
		courses []models.Course
		err     error
	)

	if permission == TaskParentWrite {
		courses, err = s.courses.FindAllForTeacher(ctx, user.ID)
	} else {
		courses, err = s.courses.FindAllByUserID(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	if courses == nil {
		courses = []models.Course{}
	}

	return courses, nil
}

// GetPermittedLessons returns all lessons of the write-eligible courses and
// only the non-hidden lessons of the remaining read-only courses. The two
// repository queries are independent and run concurrently.
func (s *taskAuthorizationService) GetPermittedLessons(ctx context.Context, user models.User, courses []models.Course) ([]models.Lesson, error) {
	writeCourseIDs := []uint{}
	readCourseIDs := []uint{}

	for _, course := range courses {
		if s.hasCourseWritePermission(user, course) {
			writeCourseIDs = append(writeCourseIDs, course.ID)
		} else if s.hasCourseReadPermission(user, course) {
			readCourseIDs = append(readCourseIDs, course.ID)
		}
	}

	var (
		wg                        sync.WaitGroup
		writeLessons, readLessons []models.Lesson
		writeErr, readErr         error
	)

	notHidden := false

	wg.Add(2)
	go func() {
		defer wg.Done()
		writeLessons, writeErr = s.lessons.FindAllByCourseIDs(ctx, writeCourseIDs, repository.LessonFilter{})
	}()
	go func() {
		defer wg.Done()
		readLessons, readErr = s.lessons.FindAllByCourseIDs(ctx, readCourseIDs, repository.LessonFilter{Hidden: &notHidden})
	}()
	wg.Wait()

	if writeErr != nil {
		return nil, writeErr
	}
	if readErr != nil {
		return nil, readErr
	}

	permitted := make([]models.Lesson, 0, len(writeLessons)+len(readLessons))
	permitted = append(permitted, writeLessons...)
	permitted = append(permitted, readLessons...)

	return permitted, nil
}

// HasTaskPermission reports whether the user may access the task at the given
// level: creators always may, otherwise the permission derives from course
// membership. A task without a course grants access to its creator only.
func (s *taskAuthorizationService) HasTaskPermission(user models.User, task models.Task, permission TaskParentPermission) bool {
	if task.CreatorID == user.ID {
		return true
	}

	if task.Course == nil {
		return false
	}

	if permission == TaskParentWrite {
		return s.hasCourseWritePermission(user, *task.Course)
	}

	return s.hasCourseReadPermission(user, *task.Course) || s.hasCourseWritePermission(user, *task.Course)
}

// HasOneOfTaskDashboardPermissions checks the user's role permissions against
// the dashboard-level flags gating the task listings.
func (s *taskAuthorizationService) HasOneOfTaskDashboardPermissions(user models.User, permissions ...string) bool {
	return user.HasOneOfPermissions(permissions...)
}

func (s *taskAuthorizationService) hasCourseWritePermission(user models.User, course models.Course) bool {
	return course.IsTeacher(user.ID) || course.IsSubstitutionTeacher(user.ID)
}

func (s *taskAuthorizationService) hasCourseReadPermission(user models.User, course models.Course) bool {
	return course.IsStudent(user.ID)
}
