package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	"m5cup/internal/models"
	"m5cup/internal/repository"
)

const (
	adminID    = int64(100)
	strangerID = int64(200)
)

func newModerationFixture(t *testing.T) (*ModerationServiceImpl, *memStore, int) {
	t.Helper()

	store := newMemStore()
	added, err := store.AddAdmin(adminID, "root")
	require.NoError(t, err)
	require.True(t, added)

	teamID, err := store.CreateTeamWithPlayers("Nova", parseRoster(validRoster), "@captain")
	require.NoError(t, err)

	svc := NewModerationServiceImpl(store, store, nopLogger{})
	return svc, store, teamID
}

func TestModerationAuthorize(t *testing.T) {
	svc, _, _ := newModerationFixture(t)

	require.True(t, svc.Authorize(adminID))
	require.False(t, svc.Authorize(strangerID))
}

func TestApproveRejectRevisitsDecision(t *testing.T) {
	svc, store, teamID := newModerationFixture(t)

	require.NoError(t, svc.Approve(adminID, teamID))
	team, err := store.GetTeamByID(teamID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, team.Status)

	// The same decision again is a no-op, not an error.
	require.NoError(t, svc.Approve(adminID, teamID))

	require.NoError(t, svc.Reject(adminID, teamID))
	require.NoError(t, svc.Approve(adminID, teamID))

	team, err = store.GetTeamByID(teamID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, team.Status)
}

func TestNonAdminIsDeniedEverywhere(t *testing.T) {
	svc, store, teamID := newModerationFixture(t)

	require.ErrorIs(t, svc.Approve(strangerID, teamID), ErrNotAuthorized)
	require.ErrorIs(t, svc.Reject(strangerID, teamID), ErrNotAuthorized)
	require.ErrorIs(t, svc.Comment(strangerID, teamID, "nope"), ErrNotAuthorized)

	_, err := svc.ListTeams(strangerID)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.TeamByID(strangerID, teamID)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.Stats(strangerID)
	require.ErrorIs(t, err, ErrNotAuthorized)
	_, err = svc.AddAdmin(strangerID, strangerID, "self")
	require.ErrorIs(t, err, ErrNotAuthorized)

	// Nothing changed along the way.
	team, err := store.GetTeamByID(teamID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, team.Status)
	require.Nil(t, team.AdminComment)
}

func TestModerationUnknownTeam(t *testing.T) {
	svc, _, _ := newModerationFixture(t)

	require.ErrorIs(t, svc.Approve(adminID, 9999), repository.ErrTeamNotFound)
	require.ErrorIs(t, svc.Comment(adminID, 9999, "где команда"), repository.ErrTeamNotFound)
}

func TestCommentIndependentOfStatus(t *testing.T) {
	svc, store, teamID := newModerationFixture(t)

	require.NoError(t, svc.Approve(adminID, teamID))
	require.NoError(t, svc.Comment(adminID, teamID, "Слот подтверждён"))

	team, err := store.GetTeamByID(teamID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, team.Status)
	require.NotNil(t, team.AdminComment)
	require.Equal(t, "Слот подтверждён", *team.AdminComment)
}

func TestStatsRendersCounts(t *testing.T) {
	svc, store, teamID := newModerationFixture(t)

	second, err := store.CreateTeamWithPlayers("Eclipse", parseRoster(validRoster), "@cap2")
	require.NoError(t, err)
	_, err = store.CreateTeamWithPlayers("Titan", parseRoster(validRoster), "@cap3")
	require.NoError(t, err)

	require.NoError(t, svc.Approve(adminID, teamID))
	require.NoError(t, svc.Reject(adminID, second))

	out, err := svc.Stats(adminID)
	require.NoError(t, err)
	require.Contains(t, out, "Всего команд: 3")
	require.Contains(t, out, "⏳ На рассмотрении: 1")
	require.Contains(t, out, "✅ Одобрено: 1")
	require.Contains(t, out, "❌ Отклонено: 1")
}

func TestAddAdminDuplicateReportsFalse(t *testing.T) {
	svc, _, _ := newModerationFixture(t)

	added, err := svc.AddAdmin(adminID, 300, "mod")
	require.NoError(t, err)
	require.True(t, added)

	added, err = svc.AddAdmin(adminID, 300, "mod")
	require.NoError(t, err)
	require.False(t, added)

	// The new admin can moderate right away.
	require.True(t, svc.Authorize(300))
}

func TestListAdminsInAdditionOrder(t *testing.T) {
	svc, _, _ := newModerationFixture(t)

	added, err := svc.AddAdmin(adminID, 300, "mod")
	require.NoError(t, err)
	require.True(t, added)

	admins, err := svc.ListAdmins(adminID)
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, int64(adminID), admins[0].TelegramID)
	require.Equal(t, "root", admins[0].Username)
	require.Equal(t, int64(300), admins[1].TelegramID)

	_, err = svc.ListAdmins(strangerID)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestListTeamsNewestFirst(t *testing.T) {
	svc, store, _ := newModerationFixture(t)

	_, err := store.CreateTeamWithPlayers("Eclipse", parseRoster(validRoster), "@cap2")
	require.NoError(t, err)

	teams, err := svc.ListTeams(adminID)
	require.NoError(t, err)
	require.Len(t, teams, 2)
	require.Equal(t, "Eclipse", teams[0].Name)
	require.Equal(t, "Nova", teams[1].Name)
}
