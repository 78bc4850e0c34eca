package service

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
	"github.com/schulportal/schulportal-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func userWithPermissions(id uint, permissions ...string) models.User {
	return models.User{
		ID:   id,
		Role: models.Role{Permissions: models.NewPermissions(permissions...)},
	}
}

type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo(users ...models.User) *memoryUserRepo {
	repo := &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
	for _, user := range users {
		repo.users[user.ID] = user
		if user.ID >= repo.nextID {
			repo.nextID = user.ID + 1
		}
	}
	return repo
}

func (m *memoryUserRepo) FindByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

type memoryRoleRepo struct {
	roles map[string]models.Role
}

func (m *memoryRoleRepo) FindByName(ctx context.Context, name string) (models.Role, error) {
	role, ok := m.roles[name]
	if !ok {
		return models.Role{}, gorm.ErrRecordNotFound
	}
	return role, nil
}

type memoryCourseRepo struct {
	courses []models.Course
	calls   int
}

func (m *memoryCourseRepo) FindAllByUserID(ctx context.Context, userID uint) ([]models.Course, error) {
	m.calls++
	matched := []models.Course{}
	for _, course := range m.courses {
		if course.IsMember(userID) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (m *memoryCourseRepo) FindAllForTeacher(ctx context.Context, userID uint) ([]models.Course, error) {
	m.calls++
	matched := []models.Course{}
	for _, course := range m.courses {
		if course.IsTeacher(userID) || course.IsSubstitutionTeacher(userID) {
			matched = append(matched, course)
		}
	}
	return matched, nil
}

func (m *memoryCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	for _, course := range m.courses {
		if course.ID == id {
			return course, nil
		}
	}
	return models.Course{}, gorm.ErrRecordNotFound
}

func (m *memoryCourseRepo) Create(ctx context.Context, course *models.Course) error {
	m.courses = append(m.courses, *course)
	return nil
}

type lessonQuery struct {
	courseIDs []uint
	filter    repository.LessonFilter
}

type memoryLessonRepo struct {
	lessons []models.Lesson
	queries []lessonQuery
}

func (m *memoryLessonRepo) FindAllByCourseIDs(ctx context.Context, courseIDs []uint, filter repository.LessonFilter) ([]models.Lesson, error) {
	m.queries = append(m.queries, lessonQuery{courseIDs: courseIDs, filter: filter})

	matched := []models.Lesson{}
	for _, lesson := range m.lessons {
		if !containsID(courseIDs, lesson.CourseID) {
			continue
		}
		if filter.Hidden != nil && lesson.Hidden != *filter.Hidden {
			continue
		}
		matched = append(matched, lesson)
	}
	return matched, nil
}

type parentQuery struct {
	filter    repository.TaskParentFilter
	predicate repository.TaskPredicate
	options   repository.TaskOptions
}

type memoryTaskRepo struct {
	tasks         []models.Task
	total         int64
	parentQueries []parentQuery
	finishedCalls []repository.FinishedTaskFilter
}

func (m *memoryTaskRepo) FindAllByParentIDs(ctx context.Context, filter repository.TaskParentFilter, predicate repository.TaskPredicate, options repository.TaskOptions) ([]models.Task, int64, error) {
	m.parentQueries = append(m.parentQueries, parentQuery{filter: filter, predicate: predicate, options: options})
	return m.tasks, m.total, nil
}

func (m *memoryTaskRepo) FindAllFinishedByParentIDs(ctx context.Context, filter repository.FinishedTaskFilter, options repository.TaskOptions) ([]models.Task, int64, error) {
	m.finishedCalls = append(m.finishedCalls, filter)
	return m.tasks, m.total, nil
}

func (m *memoryTaskRepo) GetByID(ctx context.Context, id uint) (models.Task, error) {
	for _, task := range m.tasks {
		if task.ID == id {
			return task, nil
		}
	}
	return models.Task{}, gorm.ErrRecordNotFound
}

func (m *memoryTaskRepo) invocations() int {
	return len(m.parentQueries) + len(m.finishedCalls)
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	nextID      uint
}

func newMemorySubmissionRepo() *memorySubmissionRepo {
	return &memorySubmissionRepo{submissions: make(map[uint]models.Submission), nextID: 1}
}

func (m *memorySubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return submission, nil
}

func (m *memorySubmissionRepo) FindAllByUserID(ctx context.Context, userID uint) ([]models.Submission, error) {
	matched := []models.Submission{}
	for _, submission := range m.submissions {
		if submission.StudentID == userID {
			matched = append(matched, submission)
		}
	}
	return matched, nil
}

func (m *memorySubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	submission.ID = m.nextID
	m.nextID++
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *memorySubmissionRepo) Update(ctx context.Context, submission *models.Submission) error {
	if _, ok := m.submissions[submission.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.submissions[submission.ID] = *submission
	return nil
}

type memoryTeamRepo struct {
	teams  map[uint]models.Team
	nextID uint
}

func newMemoryTeamRepo(teams ...models.Team) *memoryTeamRepo {
	repo := &memoryTeamRepo{teams: make(map[uint]models.Team), nextID: 1}
	for _, team := range teams {
		repo.teams[team.ID] = team
		if team.ID >= repo.nextID {
			repo.nextID = team.ID + 1
		}
	}
	return repo
}

func (m *memoryTeamRepo) FindAll(ctx context.Context, nameFilter string, pagination repository.Pagination) ([]models.Team, int64, error) {
	matched := []models.Team{}
	needle := strings.ToLower(strings.TrimSpace(nameFilter))
	for _, team := range m.teams {
		if needle != "" && !strings.Contains(strings.ToLower(team.Name), needle) {
			continue
		}
		matched = append(matched, team)
	}
	return matched, int64(len(matched)), nil
}

func (m *memoryTeamRepo) FindAllByUserID(ctx context.Context, userID uint) ([]models.Team, error) {
	matched := []models.Team{}
	for _, team := range m.teams {
		if team.OwnerID == userID || team.IsMember(userID) {
			matched = append(matched, team)
		}
	}
	return matched, nil
}

func (m *memoryTeamRepo) GetByID(ctx context.Context, id uint) (models.Team, error) {
	team, ok := m.teams[id]
	if !ok {
		return models.Team{}, gorm.ErrRecordNotFound
	}
	return team, nil
}

func (m *memoryTeamRepo) Create(ctx context.Context, team *models.Team) error {
	team.ID = m.nextID
	m.nextID++
	m.teams[team.ID] = *team
	return nil
}

type newsTargetQuery struct {
	targets   []repository.NewsTargetFilter
	predicate repository.NewsPredicate
}

type memoryNewsRepo struct {
	news    map[uint]models.News
	nextID  uint
	queries []newsTargetQuery
}

func newMemoryNewsRepo() *memoryNewsRepo {
	return &memoryNewsRepo{news: make(map[uint]models.News), nextID: 1}
}

func (m *memoryNewsRepo) FindAllByTargets(ctx context.Context, targets []repository.NewsTargetFilter, predicate repository.NewsPredicate, pagination repository.Pagination) ([]models.News, int64, error) {
	m.queries = append(m.queries, newsTargetQuery{targets: targets, predicate: predicate})

	matched := []models.News{}
	for _, item := range m.news {
		if !newsMatchesTargets(item, targets) {
			continue
		}
		published := item.IsPublished(predicate.Reference)
		if predicate.Unpublished == published {
			continue
		}
		matched = append(matched, item)
	}
	return matched, int64(len(matched)), nil
}

func newsMatchesTargets(item models.News, targets []repository.NewsTargetFilter) bool {
	for _, target := range targets {
		if item.TargetModel != target.TargetModel {
			continue
		}
		if target.TargetModel == models.NewsTargetSchool {
			return true
		}
		if containsID(target.TargetIDs, item.TargetID) {
			return true
		}
	}
	return false
}

func (m *memoryNewsRepo) GetByID(ctx context.Context, id uint) (models.News, error) {
	item, ok := m.news[id]
	if !ok {
		return models.News{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (m *memoryNewsRepo) Create(ctx context.Context, news *models.News) error {
	news.ID = m.nextID
	m.nextID++
	m.news[news.ID] = *news
	return nil
}

func (m *memoryNewsRepo) Update(ctx context.Context, news *models.News) error {
	if _, ok := m.news[news.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.news[news.ID] = *news
	return nil
}

func (m *memoryNewsRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.news[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.news, id)
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
