//go:build integration

package repository

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestAddAdminAndLookup(t *testing.T) {
	cleanTables(t)
	repo := NewAdminPostgres(testDB)

	ok, err := repo.IsAdmin(100)
	require.NoError(t, err)
	require.False(t, ok)

	added, err := repo.AddAdmin(100, "root")
	require.NoError(t, err)
	require.True(t, added)

	ok, err = repo.IsAdmin(100)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestListAdminsInAdditionOrder(t *testing.T) {
	cleanTables(t)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := NewAdminPostgresWithClock(testDB, clock)

	added, err := repo.AddAdmin(100, "root")
	require.NoError(t, err)
	require.True(t, added)
	clock.Advance(time.Hour)
	_, err = repo.AddAdmin(200, "mod")
	require.NoError(t, err)

	admins, err := repo.ListAdmins()
	require.NoError(t, err)
	require.Len(t, admins, 2)
	require.Equal(t, int64(100), admins[0].TelegramID)
	require.Equal(t, "root", admins[0].Username)
	require.Equal(t, int64(200), admins[1].TelegramID)
	require.True(t, admins[1].AddedDate.After(admins[0].AddedDate))
}

func TestAddAdminDuplicateIsNotAnError(t *testing.T) {
	cleanTables(t)
	repo := NewAdminPostgres(testDB)

	added, err := repo.AddAdmin(100, "root")
	require.NoError(t, err)
	require.True(t, added)

	added, err = repo.AddAdmin(100, "renamed")
	require.NoError(t, err)
	require.False(t, added)
}
