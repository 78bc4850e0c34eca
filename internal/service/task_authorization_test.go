package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schulportal/schulportal-api/internal/models"
)

func TestGetPermittedCoursesNeverReturnsNil(t *testing.T) {
	authorization := NewTaskAuthorizationService(&memoryCourseRepo{}, &memoryLessonRepo{}, testLogger())

	courses, err := authorization.GetPermittedCourses(context.Background(), models.User{ID: 1}, TaskParentRead)
	require.NoError(t, err)
	require.NotNil(t, courses)
	require.Empty(t, courses)
}

func TestGetPermittedCoursesSelectsRepositoryByPermission(t *testing.T) {
	student := models.User{ID: 1}
	teacher := models.User{ID: 2}
	course := models.Course{ID: 10, Students: []models.User{student}, Teachers: []models.User{teacher}}
	repo := &memoryCourseRepo{courses: []models.Course{course}}

	authorization := NewTaskAuthorizationService(repo, &memoryLessonRepo{}, testLogger())

	courses, err := authorization.GetPermittedCourses(context.Background(), student, TaskParentWrite)
	require.NoError(t, err)
	require.Empty(t, courses, "students have no write-level courses")

	courses, err = authorization.GetPermittedCourses(context.Background(), student, TaskParentRead)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	courses, err = authorization.GetPermittedCourses(context.Background(), teacher, TaskParentWrite)
	require.NoError(t, err)
	require.Len(t, courses, 1)
}

func TestGetPermittedLessonsHidesHiddenLessonsOfReadOnlyCourses(t *testing.T) {
	user := models.User{ID: 1}
	readCourse := models.Course{ID: 10, Students: []models.User{user}}
	writeCourse := models.Course{ID: 11, Teachers: []models.User{user}}

	lessons := &memoryLessonRepo{lessons: []models.Lesson{
		{ID: 1, CourseID: readCourse.ID, Course: readCourse},
		{ID: 2, CourseID: readCourse.ID, Course: readCourse, Hidden: true},
		{ID: 3, CourseID: writeCourse.ID, Course: writeCourse},
		{ID: 4, CourseID: writeCourse.ID, Course: writeCourse, Hidden: true},
	}}

	authorization := NewTaskAuthorizationService(&memoryCourseRepo{}, lessons, testLogger())

	permitted, err := authorization.GetPermittedLessons(context.Background(), user, []models.Course{readCourse, writeCourse})
	require.NoError(t, err)

	ids := make([]uint, 0, len(permitted))
	for _, lesson := range permitted {
		ids = append(ids, lesson.ID)
	}
	require.ElementsMatch(t, []uint{1, 3, 4}, ids, "hidden lessons only surface for write-eligible courses")
	require.Len(t, lessons.queries, 2, "write and read lessons are fetched by two queries")
}

func TestGetPermittedLessonsDoesNotDoubleCountWriteCourses(t *testing.T) {
	user := models.User{ID: 1}
	// User is both enrolled and teaching; the course must only be queried at
	// write level.
	course := models.Course{ID: 10, Students: []models.User{user}, Teachers: []models.User{user}}

	lessons := &memoryLessonRepo{lessons: []models.Lesson{
		{ID: 1, CourseID: course.ID, Course: course},
	}}

	authorization := NewTaskAuthorizationService(&memoryCourseRepo{}, lessons, testLogger())

	permitted, err := authorization.GetPermittedLessons(context.Background(), user, []models.Course{course})
	require.NoError(t, err)
	require.Len(t, permitted, 1)
}

func TestHasTaskPermission(t *testing.T) {
	creator := models.User{ID: 1}
	student := models.User{ID: 2}
	teacher := models.User{ID: 3}
	substitute := models.User{ID: 4}
	outsider := models.User{ID: 5}

	course := models.Course{
		ID:                   10,
		Students:             []models.User{student},
		Teachers:             []models.User{teacher},
		SubstitutionTeachers: []models.User{substitute},
	}
	task := models.Task{ID: 1, CreatorID: creator.ID, CourseID: &course.ID, Course: &course}

	authorization := NewTaskAuthorizationService(&memoryCourseRepo{}, &memoryLessonRepo{}, testLogger())

	require.True(t, authorization.HasTaskPermission(creator, task, TaskParentWrite), "creators always have access")
	require.True(t, authorization.HasTaskPermission(teacher, task, TaskParentWrite))
	require.True(t, authorization.HasTaskPermission(substitute, task, TaskParentWrite))
	require.False(t, authorization.HasTaskPermission(student, task, TaskParentWrite))

	require.True(t, authorization.HasTaskPermission(student, task, TaskParentRead))
	require.True(t, authorization.HasTaskPermission(teacher, task, TaskParentRead), "write membership implies read")
	require.False(t, authorization.HasTaskPermission(outsider, task, TaskParentRead))

	orphan := models.Task{ID: 2, CreatorID: creator.ID}
	require.True(t, authorization.HasTaskPermission(creator, orphan, TaskParentRead))
	require.False(t, authorization.HasTaskPermission(teacher, orphan, TaskParentRead), "a task without a course is creator-only")
}
