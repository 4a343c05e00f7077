package quest

import (
	"context"
	"testing"

	"github.com/emberquest/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnLevelChange_RaisesToAbsoluteLevel(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true},
		model.QuestObjective{Type: ObjectiveReachLevel, RequiredAmount: 10})

	_, err := svc.Accept(ctx, char.ID, q.ID)
	require.NoError(t, err)

	require.NoError(t, svc.OnLevelChange(ctx, char.ID, 6))
	p := objectiveProgress(t, db, char.ID, q.Objectives[0].ID)
	assert.Equal(t, int64(6), p.CurrentAmount)

	// Levels are absolute: reporting the same level twice does not add up.
	require.NoError(t, svc.OnLevelChange(ctx, char.ID, 6))
	p = objectiveProgress(t, db, char.ID, q.Objectives[0].ID)
	assert.Equal(t, int64(6), p.CurrentAmount)

	require.NoError(t, svc.OnLevelChange(ctx, char.ID, 10))
	assert.Equal(t, model.UserQuestCompleted, questStatus(t, db, char.ID, q.ID))
}

func TestOnGuildJoined(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 5)
	q := createQuest(t, db, model.Quest{IsActive: true},
		model.QuestObjective{Type: ObjectiveJoinGuild, RequiredAmount: 1})

	_, err := svc.Accept(ctx, char.ID, q.ID)
	require.NoError(t, err)

	require.NoError(t, svc.OnGuildJoined(ctx, char.ID))
	assert.Equal(t, model.UserQuestCompleted, questStatus(t, db, char.ID, q.ID))
}

func TestAccept_SeedsLevelAndGuildFromCurrentState(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 12)

	guild := model.Guild{Name: t.Name(), LeaderID: char.ID}
	require.NoError(t, db.Create(&guild).Error)
	require.NoError(t, db.Create(&model.GuildMember{GuildID: guild.ID, CharID: char.ID, Rank: 0}).Error)

	levelQuest := createQuest(t, db, model.Quest{IsActive: true},
		model.QuestObjective{Type: ObjectiveReachLevel, RequiredAmount: 10})
	guildQuest := createQuest(t, db, model.Quest{IsActive: true},
		model.QuestObjective{Type: ObjectiveJoinGuild, RequiredAmount: 1})

	// Both conditions already hold, so both quests complete on accept.
	uq, err := svc.Accept(ctx, char.ID, levelQuest.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserQuestCompleted, uq.Status)

	uq, err = svc.Accept(ctx, char.ID, guildQuest.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserQuestCompleted, uq.Status)
}
