package quest

import (
	"context"
	"testing"
	"time"

	"github.com/emberquest/server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setClaimedAt pins the claim timestamp so calendar-day scenarios are not
// tied to the wall clock of the test run.
func setClaimedAt(t *testing.T, db *gorm.DB, charID, questID int64, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&model.UserQuest{}).
		Where("char_id = ? AND quest_id = ?", charID, questID).
		Update("claimed_at", at).Error)
}

func TestDailyLogin_FirstLoginCompletes(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true, Category: model.QuestCategoryDaily, Repeatable: true, RewardGold: 25},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, now))

	assert.Equal(t, model.UserQuestCompleted, questStatus(t, db, char.ID, q.ID))
	p := objectiveProgress(t, db, char.ID, q.Objectives[0].ID)
	assert.Equal(t, int64(1), p.CurrentAmount)
	assert.True(t, p.IsCompleted)
}

func TestDailyLogin_SecondLoginSameDayIsNoop(t *testing.T) {
	db, _, svc, rewards := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true, Category: model.QuestCategoryDaily, Repeatable: true, RewardGold: 25},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	morning := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 21, 0, 0, 0, time.UTC)

	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, morning))
	_, err := svc.Claim(ctx, char.ID, q.ID)
	require.NoError(t, err)
	require.Len(t, rewards.grants, 1)
	setClaimedAt(t, db, char.ID, q.ID, morning)

	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, evening))
	assert.Equal(t, model.UserQuestClaimed, questStatus(t, db, char.ID, q.ID))

	// Still claimed; no second reward today.
	_, err = svc.Claim(ctx, char.ID, q.ID)
	assert.ErrorIs(t, err, ErrAlreadyClaimed)
	assert.Len(t, rewards.grants, 1)
}

func TestDailyLogin_CalendarDayBoundaryNotRolling24h(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true, Category: model.QuestCategoryDaily, Repeatable: true, RewardGold: 25},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	// Claimed at 23:59; two minutes later it is a new calendar day.
	lateNight := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	justAfterMidnight := time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC)

	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, lateNight))
	_, err := svc.Claim(ctx, char.ID, q.ID)
	require.NoError(t, err)
	setClaimedAt(t, db, char.ID, q.ID, lateNight)

	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, justAfterMidnight))
	assert.Equal(t, model.UserQuestCompleted, questStatus(t, db, char.ID, q.ID))

	_, err = svc.Claim(ctx, char.ID, q.ID)
	require.NoError(t, err)
}

func TestDailyLogin_PendingClaimSurvivesNextLogin(t *testing.T) {
	db, _, svc, rewards := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true, Category: model.QuestCategoryDaily, Repeatable: true, RewardGold: 25},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	day1 := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Completed on day one but never claimed; day two must not reset or
	// double the pending claim.
	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, day1))
	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, day2))

	assert.Equal(t, model.UserQuestCompleted, questStatus(t, db, char.ID, q.ID))
	_, err := svc.Claim(ctx, char.ID, q.ID)
	require.NoError(t, err)
	assert.Len(t, rewards.grants, 1)
}

func TestDailyLogin_QuestCannotBeAbandoned(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: true, Category: model.QuestCategoryDaily, Repeatable: true},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	// Force an active record to exercise the abandon guard directly.
	require.NoError(t, db.Create(&model.UserQuest{
		CharID: char.ID, QuestID: q.ID, Status: model.UserQuestActive,
	}).Error)

	assert.ErrorIs(t, svc.Abandon(ctx, char.ID, q.ID), ErrLoginQuestAbandon)
}

func TestDailyLogin_InactiveQuestSkipped(t *testing.T) {
	db, _, svc, _ := newTestEngine(t)
	ctx := context.Background()
	char := createChar(t, db, 1)
	q := createQuest(t, db, model.Quest{IsActive: false, Category: model.QuestCategoryDaily, Repeatable: true},
		model.QuestObjective{Type: ObjectiveDailyLogin, RequiredAmount: 1})

	require.NoError(t, svc.EvaluateDailyLogin(ctx, char.ID, time.Now()))

	var count int64
	db.Model(&model.UserQuest{}).Where("char_id = ? AND quest_id = ?", char.ID, q.ID).Count(&count)
	assert.Zero(t, count)
}

func TestTruncateToDateUTC(t *testing.T) {
	late := time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)
	early := time.Date(2026, 3, 14, 0, 0, 1, 0, time.UTC)
	nextDay := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)

	assert.True(t, sameCalendarDay(late, early))
	assert.False(t, sameCalendarDay(late, nextDay))

	// Offsets are normalized to UTC before comparison.
	offset := time.FixedZone("UTC+9", 9*3600)
	tokyoMorning := time.Date(2026, 3, 15, 8, 0, 0, 0, offset) // 23:00 UTC on the 14th
	assert.True(t, sameCalendarDay(late, tokyoMorning))
}
