package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/schulportal/schulportal-api/internal/models"
)

type fakeResolver struct {
	users map[uint]models.User
}

func (f *fakeResolver) FindByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func newRBACApp(resolver *fakeResolver, userID *uint, permissions ...string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != nil {
			c.Locals("user_id", *userID)
		}
		return c.Next()
	})
	app.Get("/guarded", RequirePermission(resolver, permissions...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func performRBACRequest(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	return resp
}

func TestRequirePermissionUnauthenticated(t *testing.T) {
	app := newRBACApp(&fakeResolver{}, nil, models.PermissionUserImport)

	resp := performRBACRequest(t, app)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermissionUnknownUser(t *testing.T) {
	userID := uint(7)
	app := newRBACApp(&fakeResolver{users: map[uint]models.User{}}, &userID, models.PermissionUserImport)

	resp := performRBACRequest(t, app)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequirePermissionForbidden(t *testing.T) {
	userID := uint(7)
	resolver := &fakeResolver{users: map[uint]models.User{
		userID: {ID: userID, Role: models.Role{Permissions: models.NewPermissions(models.PermissionNewsView)}},
	}}
	app := newRBACApp(resolver, &userID, models.PermissionUserImport)

	resp := performRBACRequest(t, app)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequirePermissionAllowsAnyMatch(t *testing.T) {
	userID := uint(7)
	resolver := &fakeResolver{users: map[uint]models.User{
		userID: {ID: userID, Role: models.Role{Permissions: models.NewPermissions(models.PermissionTaskDashboardView)}},
	}}
	app := newRBACApp(resolver, &userID, models.PermissionTaskDashboardView, models.PermissionTaskDashboardTeacherView)

	resp := performRBACRequest(t, app)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
