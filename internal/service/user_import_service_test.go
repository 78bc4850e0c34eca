package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/schulportal/schulportal-api/internal/models"
)

func newUserImportServiceForTest(t *testing.T, users *memoryUserRepo, roles *memoryRoleRepo) UserImportService {
	t.Helper()
	svc, err := NewUserImportService(users, roles, testLogger())
	require.NoError(t, err)
	return svc
}

func TestUserImportRequiresPermission(t *testing.T) {
	caller := userWithPermissions(1)
	svc := newUserImportServiceForTest(t, newMemoryUserRepo(caller), &memoryRoleRepo{})

	_, err := svc.Import(context.Background(), caller.ID, []byte(`{"users":[]}`))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserImportRejectsMalformedDocument(t *testing.T) {
	caller := userWithPermissions(1, models.PermissionUserImport)
	svc := newUserImportServiceForTest(t, newMemoryUserRepo(caller), &memoryRoleRepo{})

	_, err := svc.Import(context.Background(), caller.ID, []byte(`{not json`))
	require.ErrorIs(t, err, ErrInvalidImportDocument)
}

func TestUserImportRejectsSchemaViolations(t *testing.T) {
	caller := userWithPermissions(1, models.PermissionUserImport)
	svc := newUserImportServiceForTest(t, newMemoryUserRepo(caller), &memoryRoleRepo{})

	// role outside the enum
	document := []byte(`{"users":[{"first_name":"A","last_name":"B","email":"a@example.com","role":"principal"}]}`)
	_, err := svc.Import(context.Background(), caller.ID, document)
	require.ErrorIs(t, err, ErrInvalidImportDocument)

	// users must not be empty
	_, err = svc.Import(context.Background(), caller.ID, []byte(`{"users":[]}`))
	require.ErrorIs(t, err, ErrInvalidImportDocument)
}

func TestUserImportCreatesAndSkips(t *testing.T) {
	caller := userWithPermissions(1, models.PermissionUserImport)
	existing := models.User{ID: 2, Email: "old@example.com"}
	users := newMemoryUserRepo(caller, existing)
	roles := &memoryRoleRepo{roles: map[string]models.Role{
		"student": {ID: 7, Name: "student"},
		"teacher": {ID: 8, Name: "teacher"},
	}}

	svc := newUserImportServiceForTest(t, users, roles)

	document := []byte(`{"users":[
		{"first_name":"Mila","last_name":"Braun","email":"mila@example.com","role":"student"},
		{"first_name":"Old","last_name":"Hand","email":"old@example.com","role":"teacher"},
		{"first_name":"Tim","last_name":"Vogel","email":"tim@example.com","role":"teacher"}
	]}`)

	result, err := svc.Import(context.Background(), caller.ID, document)
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, []string{"old@example.com"}, result.Skipped)

	created, err := users.FindByEmail(context.Background(), "mila@example.com")
	require.NoError(t, err)
	require.Equal(t, uint(7), created.RoleID)
}

func TestUserImportUnknownRole(t *testing.T) {
	caller := userWithPermissions(1, models.PermissionUserImport)
	svc := newUserImportServiceForTest(t, newMemoryUserRepo(caller), &memoryRoleRepo{roles: map[string]models.Role{}})

	document := []byte(`{"users":[{"first_name":"A","last_name":"B","email":"a@example.com","role":"student"}]}`)
	_, err := svc.Import(context.Background(), caller.ID, document)
	require.ErrorIs(t, err, ErrRoleNotFound)
}
