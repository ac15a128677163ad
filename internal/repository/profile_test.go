package repository

import (
	"context"
	"testing"

	"quad/internal/models"
	"quad/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	t.Run("Create rejects a duplicate email", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.Profile{FirstName: "Ada", LastName: "L", Email: "ada@example.com"}))
		err := repo.Create(ctx, &models.Profile{FirstName: "Ada", LastName: "M", Email: "ada@example.com"})
		assert.True(t, models.HasCode(err, models.CodeValidation))
	})

	t.Run("GetByID missing", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 9999)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("Update", func(t *testing.T) {
		p, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		p.City = "Lowell"
		require.NoError(t, repo.Update(ctx, p))

		again, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Lowell", again.City)
	})

	t.Run("GetByIDs with no ids", func(t *testing.T) {
		got, err := repo.GetByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProfileRepository_Stats(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	repo := NewProfileRepository(db)
	notes := NewNoteRepository(db)
	friends := NewFriendRepository(db)
	follows := NewFollowRepository(db)
	ctx := context.Background()

	p := testutil.CreateProfiles(t, db, "stats", 3)
	n1 := testutil.CreateNote(t, db, p[0].ID, "one")
	n2 := testutil.CreateNote(t, db, p[0].ID, "two")
	other := testutil.CreateNote(t, db, p[1].ID, "other")

	for _, step := range []struct {
		kind    models.EngagementKind
		note    uint
		profile uint
	}{
		{models.EngagementLike, n1.ID, p[1].ID},
		{models.EngagementLike, n2.ID, p[2].ID},
		{models.EngagementLike, other.ID, p[0].ID},
		{models.EngagementBookmark, other.ID, p[0].ID},
	} {
		_, err := notes.Toggle(ctx, step.kind, step.note, step.profile)
		require.NoError(t, err)
	}
	_, err := friends.Add(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)
	_, err = follows.Follow(ctx, p[2].ID, p[0].ID)
	require.NoError(t, err)
	_, err = follows.Follow(ctx, p[0].ID, p[1].ID)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, p[0].ID)
	require.NoError(t, err)
	assert.Equal(t, &models.ProfileStats{
		ProfileID:            p[0].ID,
		NotesCount:           2,
		LikedNotesCount:      1,
		BookmarkedNotesCount: 1,
		TotalLikesReceived:   2,
		FollowersCount:       1,
		FollowingCount:       1,
		FriendsCount:         1,
	}, stats)

	_, err = repo.Stats(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
