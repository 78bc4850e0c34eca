package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/schulportal/schulportal-api/internal/dto"
	"github.com/schulportal/schulportal-api/internal/models"
)

func newTeamServiceForTest(teams *memoryTeamRepo, users *memoryUserRepo) TeamService {
	return NewTeamService(teams, users, validator.New(validator.WithRequiredStructEnabled()), testLogger())
}

func TestTeamCreateResolvesMembers(t *testing.T) {
	owner := userWithPermissions(1)
	alice := userWithPermissions(2)
	bob := userWithPermissions(3)

	teams := newMemoryTeamRepo()
	svc := newTeamServiceForTest(teams, newMemoryUserRepo(owner, alice, bob))

	created, err := svc.Create(context.Background(), owner.ID, dto.TeamCreateRequest{
		Name:      "Projektwoche",
		MemberIDs: []uint{alice.ID, bob.ID},
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, created.OwnerID)
	require.Equal(t, 3, created.NumberOfUsers, "owner counts as a member")

	stored, err := teams.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.True(t, stored.IsMember(alice.ID))
	require.True(t, stored.IsMember(bob.ID))
}

func TestTeamCreateUnknownMember(t *testing.T) {
	owner := userWithPermissions(1)
	svc := newTeamServiceForTest(newMemoryTeamRepo(), newMemoryUserRepo(owner))

	_, err := svc.Create(context.Background(), owner.ID, dto.TeamCreateRequest{
		Name:      "Projektwoche",
		MemberIDs: []uint{42},
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestTeamCreateRequiresName(t *testing.T) {
	owner := userWithPermissions(1)
	svc := newTeamServiceForTest(newMemoryTeamRepo(), newMemoryUserRepo(owner))

	_, err := svc.Create(context.Background(), owner.ID, dto.TeamCreateRequest{})
	require.Error(t, err)
}

func TestTeamGetNotFound(t *testing.T) {
	svc := newTeamServiceForTest(newMemoryTeamRepo(), newMemoryUserRepo())

	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamFindAllFiltersByName(t *testing.T) {
	teams := newMemoryTeamRepo(
		models.Team{ID: 1, Name: "Schach AG", OwnerID: 1},
		models.Team{ID: 2, Name: "Theater AG", OwnerID: 1},
		models.Team{ID: 3, Name: "Schulgarten", OwnerID: 2},
	)
	svc := newTeamServiceForTest(teams, newMemoryUserRepo())

	results, total, err := svc.FindAll(context.Background(), dto.TeamListRequest{Name: "ag"})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, results, 2)
}
