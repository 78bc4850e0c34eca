package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
)

func newNewsServiceForTest(t *testing.T, users *memoryUserRepo, news *memoryNewsRepo, teams *memoryTeamRepo, courses *memoryCourseRepo) *newsService {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	authorization := NewTaskAuthorizationService(courses, &memoryLessonRepo{}, testLogger())
	validate := validator.New(validator.WithRequiredStructEnabled())

	return NewNewsService(news, users, teams, authorization, client, nil, "schulportal", validate, testLogger()).(*newsService)
}

func TestNewsFindAllRequiresViewPermission(t *testing.T) {
	caller := userWithPermissions(1)
	svc := newNewsServiceForTest(t, newMemoryUserRepo(caller), newMemoryNewsRepo(), newMemoryTeamRepo(), &memoryCourseRepo{})

	_, _, err := svc.FindAllForUser(context.Background(), caller.ID, dto.NewsListRequest{})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewsFindAllUnpublishedRequiresEditPermission(t *testing.T) {
	viewer := userWithPermissions(1, models.PermissionNewsView)
	svc := newNewsServiceForTest(t, newMemoryUserRepo(viewer), newMemoryNewsRepo(), newMemoryTeamRepo(), &memoryCourseRepo{})

	_, _, err := svc.FindAllForUser(context.Background(), viewer.ID, dto.NewsListRequest{Unpublished: true})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewsFindAllScopesTargetsToCallerMemberships(t *testing.T) {
	caller := userWithPermissions(1, models.PermissionNewsView)

	myCourse := models.Course{ID: 10, Students: []models.User{{ID: caller.ID}}}
	otherCourse := models.Course{ID: 11}
	courses := &memoryCourseRepo{courses: []models.Course{myCourse, otherCourse}}

	teams := newMemoryTeamRepo(models.Team{ID: 5, Name: "Yearbook", OwnerID: caller.ID})

	news := newMemoryNewsRepo()
	past := time.Now().Add(-time.Hour)
	for _, item := range []models.News{
		{Title: "school wide", TargetModel: models.NewsTargetSchool, DisplayAt: past, CreatorID: 9},
		{Title: "my course", TargetModel: models.NewsTargetCourse, TargetID: myCourse.ID, DisplayAt: past, CreatorID: 9},
		{Title: "other course", TargetModel: models.NewsTargetCourse, TargetID: otherCourse.ID, DisplayAt: past, CreatorID: 9},
		{Title: "my team", TargetModel: models.NewsTargetTeam, TargetID: 5, DisplayAt: past, CreatorID: 9},
		{Title: "scheduled", TargetModel: models.NewsTargetSchool, DisplayAt: time.Now().Add(time.Hour), CreatorID: 9},
	} {
		item.ID = news.nextID
		news.news[item.ID] = item
		news.nextID++
	}

	svc := newNewsServiceForTest(t, newMemoryUserRepo(caller), news, teams, courses)

	items, total, err := svc.FindAllForUser(context.Background(), caller.ID, dto.NewsListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)

	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	require.ElementsMatch(t, []string{"school wide", "my course", "my team"}, titles)
}

func TestNewsCreateSanitizesBodyAndPublishesEvent(t *testing.T) {
	editor := userWithPermissions(1, models.PermissionNewsEdit)
	news := newMemoryNewsRepo()
	svc := newNewsServiceForTest(t, newMemoryUserRepo(editor), news, newMemoryTeamRepo(), &memoryCourseRepo{})

	created, err := svc.Create(context.Background(), editor.ID, dto.NewsCreateRequest{
		Title:       "Sports day",
		Body:        `<p>Bring shoes</p><script>alert("x")</script>`,
		TargetModel: models.NewsTargetSchool,
	})
	require.NoError(t, err)
	require.Contains(t, created.Body, "Bring shoes")
	require.NotContains(t, created.Body, "script")
	require.Equal(t, editor.ID, created.CreatorID)

	stored, err := news.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotContains(t, stored.Body, "alert")
}

func TestNewsCreateRejectsScriptOnlyBody(t *testing.T) {
	editor := userWithPermissions(1, models.PermissionNewsEdit)
	svc := newNewsServiceForTest(t, newMemoryUserRepo(editor), newMemoryNewsRepo(), newMemoryTeamRepo(), &memoryCourseRepo{})

	_, err := svc.Create(context.Background(), editor.ID, dto.NewsCreateRequest{
		Title:       "Empty",
		Body:        `<script>alert("x")</script>`,
		TargetModel: models.NewsTargetSchool,
	})
	require.Error(t, err)
}

func TestNewsCreateRequiresEditPermission(t *testing.T) {
	viewer := userWithPermissions(1, models.PermissionNewsView)
	svc := newNewsServiceForTest(t, newMemoryUserRepo(viewer), newMemoryNewsRepo(), newMemoryTeamRepo(), &memoryCourseRepo{})

	_, err := svc.Create(context.Background(), viewer.ID, dto.NewsCreateRequest{
		Title:       "Nope",
		Body:        "body",
		TargetModel: models.NewsTargetSchool,
	})
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestNewsGetUnpublishedRequiresEditPermission(t *testing.T) {
	viewer := userWithPermissions(1, models.PermissionNewsView)
	editor := userWithPermissions(2, models.PermissionNewsEdit)

	news := newMemoryNewsRepo()
	item := models.News{ID: 1, Title: "draft", Body: "b", TargetModel: models.NewsTargetSchool, DisplayAt: time.Now().Add(time.Hour), CreatorID: editor.ID}
	news.news[item.ID] = item
	news.nextID = 2

	svc := newNewsServiceForTest(t, newMemoryUserRepo(viewer, editor), news, newMemoryTeamRepo(), &memoryCourseRepo{})

	_, err := svc.Get(context.Background(), item.ID, viewer.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	got, err := svc.Get(context.Background(), item.ID, editor.ID)
	require.NoError(t, err)
	require.Equal(t, "draft", got.Title)
}

func TestNewsDeleteNotFound(t *testing.T) {
	editor := userWithPermissions(1, models.PermissionNewsEdit)
	svc := newNewsServiceForTest(t, newMemoryUserRepo(editor), newMemoryNewsRepo(), newMemoryTeamRepo(), &memoryCourseRepo{})

	err := svc.Delete(context.Background(), 404, editor.ID)
	require.ErrorIs(t, err, ErrNewsNotFound)
}
