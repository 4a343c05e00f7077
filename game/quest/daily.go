package quest

import (
	"context"
	"errors"
	"time"

	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// truncateToDateUTC drops the time-of-day component, leaving midnight UTC
// of the same calendar day.
func truncateToDateUTC(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

func sameCalendarDay(a, b time.Time) bool {
	return truncateToDateUTC(a).Equal(truncateToDateUTC(b))
}

// EvaluateDailyLogin applies the calendar-day login rule to every active
// catalog quest carrying a daily_login objective. The day boundary is
// midnight UTC, not a rolling 24 hours: logging in at 23:59 and again at
// 00:01 counts as two days.
//
// Per quest, at the moment of login:
//   - no record, or a claimed record from an earlier day: the quest
//     (re-)completes immediately, ready to claim.
//   - claimed today: nothing happens until the next day.
//   - completed but unclaimed: stays completed; the pending claim is never
//     invalidated by another login.
func (s *Service) EvaluateDailyLogin(ctx context.Context, charID int64, now time.Time) error {
	var questIDs []int64
	err := s.db.WithContext(ctx).Model(&model.QuestObjective{}).
		Where("type = ?", ObjectiveDailyLogin).
		Distinct().
		Pluck("quest_id", &questIDs).Error
	if err != nil {
		return err
	}
	if len(questIDs) == 0 {
		return nil
	}

	var quests []model.Quest
	err = s.db.WithContext(ctx).Preload("Objectives").
		Where("id IN ? AND is_active = ?", questIDs, true).
		Find(&quests).Error
	if err != nil {
		return err
	}

	for i := range quests {
		if err := s.evaluateLoginQuest(ctx, charID, &quests[i], now); err != nil {
			s.logger.Error("daily login evaluation failed",
				zap.Int64("char_id", charID),
				zap.Int64("quest_id", quests[i].ID),
				zap.Error(err))
		}
	}
	return nil
}

func (s *Service) evaluateLoginQuest(ctx context.Context, charID int64, q *model.Quest, now time.Time) error {
	var uq model.UserQuest
	err := s.db.WithContext(ctx).
		Where("char_id = ? AND quest_id = ?", charID, q.ID).
		First(&uq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return s.completeLoginQuest(ctx, charID, q, nil, now)
	case err != nil:
		return err
	}

	switch uq.Status {
	case model.UserQuestCompleted:
		// Pending claim from an earlier day stays claimable.
		return nil
	case model.UserQuestActive:
		return s.completeLoginQuest(ctx, charID, q, &uq, now)
	case model.UserQuestClaimed:
		if uq.ClaimedAt != nil && sameCalendarDay(*uq.ClaimedAt, now) {
			return nil
		}
		return s.completeLoginQuest(ctx, charID, q, &uq, now)
	}
	return nil
}

// completeLoginQuest force-completes a login quest: the state record flips
// to completed and every objective's progress row is set to its requirement.
func (s *Service) completeLoginQuest(ctx context.Context, charID int64, q *model.Quest, existing *model.UserQuest, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if existing == nil {
			uq := model.UserQuest{
				CharID:      charID,
				QuestID:     q.ID,
				Status:      model.UserQuestCompleted,
				CompletedAt: &now,
			}
			if err := tx.Create(&uq).Error; err != nil {
				return err
			}
		} else {
			err := tx.Model(&model.UserQuest{}).
				Where("id = ?", existing.ID).
				Updates(map[string]interface{}{
					"status":       model.UserQuestCompleted,
					"completed_at": now,
					"claimed_at":   nil,
				}).Error
			if err != nil {
				return err
			}
		}

		for i := range q.Objectives {
			obj := &q.Objectives[i]
			res := tx.Model(&model.UserQuestProgress{}).
				Where("char_id = ? AND objective_id = ?", charID, obj.ID).
				Updates(map[string]interface{}{
					"current_amount": obj.RequiredAmount,
					"is_completed":   true,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				row := model.UserQuestProgress{
					CharID:        charID,
					ObjectiveID:   obj.ID,
					QuestID:       obj.QuestID,
					CurrentAmount: obj.RequiredAmount,
					IsCompleted:   true,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		s.logger.Info("login quest completed",
			zap.Int64("char_id", charID),
			zap.Int64("quest_id", q.ID),
			zap.Time("day", truncateToDateUTC(now)))
		return nil
	})
}
