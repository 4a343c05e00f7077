package ranking

import (
	"context"
	"testing"

	"github.com/emberquest/server/model"
	"github.com/emberquest/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRefreshAndTop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	svc := New(db, c, 10, zap.NewNop())
	ctx := context.Background()

	chars := []model.Character{
		{AccountID: 1, Name: "alice", ClassID: 1, HP: 100, MaxHP: 100},
		{AccountID: 2, Name: "bob", ClassID: 1, HP: 100, MaxHP: 100},
		{AccountID: 3, Name: "carol", ClassID: 1, HP: 100, MaxHP: 100},
	}
	for i := range chars {
		require.NoError(t, db.Create(&chars[i]).Error)
	}
	require.NoError(t, db.Create(&model.Statistics{CharID: chars[0].ID, GoldEarned: 500}).Error)
	require.NoError(t, db.Create(&model.Statistics{CharID: chars[1].ID, GoldEarned: 1200}).Error)
	require.NoError(t, db.Create(&model.Statistics{CharID: chars[2].ID}).Error) // zero gold, excluded

	require.NoError(t, svc.Refresh(ctx))

	top, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Name)
	assert.Equal(t, int64(1200), top[0].GoldEarned)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, "alice", top[1].Name)
}

func TestTop_EmptyBoard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	svc := New(db, c, 10, zap.NewNop())

	top, err := svc.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}
