package quest

import (
	"context"
	"time"

	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// advance adds delta to one objective's progress row and flips it to
// completed when the threshold is reached. Both writes are single guarded
// UPDATEs so concurrent events for the same objective cannot lose an
// increment or complete twice.
func (s *Service) advance(ctx context.Context, charID int64, obj *model.QuestObjective, delta int64) error {
	if delta <= 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&model.UserQuestProgress{}).
		Where("char_id = ? AND objective_id = ? AND is_completed = ?", charID, obj.ID, false).
		UpdateColumn("current_amount", gorm.Expr("current_amount + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already completed, or the quest is not tracked for this character.
		return nil
	}

	return s.finishIfReached(ctx, charID, obj)
}

// raiseTo sets an objective's progress to an absolute value, used for
// threshold objectives like level where events report the new total rather
// than a delta. Progress only moves up.
func (s *Service) raiseTo(ctx context.Context, charID int64, obj *model.QuestObjective, value int64) error {
	res := s.db.WithContext(ctx).Model(&model.UserQuestProgress{}).
		Where("char_id = ? AND objective_id = ? AND is_completed = ? AND current_amount < ?",
			charID, obj.ID, false, value).
		UpdateColumn("current_amount", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return s.finishIfReached(ctx, charID, obj)
}

// finishIfReached flips the completion flag once current_amount meets the
// requirement, then re-evaluates the quest. Guarded on the flag so the flip
// happens at most once per progress row.
func (s *Service) finishIfReached(ctx context.Context, charID int64, obj *model.QuestObjective) error {
	res := s.db.WithContext(ctx).Model(&model.UserQuestProgress{}).
		Where("char_id = ? AND objective_id = ? AND is_completed = ? AND current_amount >= ?",
			charID, obj.ID, false, obj.RequiredAmount).
		UpdateColumn("is_completed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	s.logger.Info("objective completed",
		zap.Int64("char_id", charID),
		zap.Int64("quest_id", obj.QuestID),
		zap.Int64("objective_id", obj.ID))
	return s.checkQuestComplete(ctx, charID, obj.QuestID)
}

// checkQuestComplete promotes an active quest to completed once every
// objective's progress row is flagged done. The status flip is guarded on
// the current status so it happens exactly once.
func (s *Service) checkQuestComplete(ctx context.Context, charID, questID int64) error {
	var total, done int64
	if err := s.db.WithContext(ctx).Model(&model.QuestObjective{}).
		Where("quest_id = ?", questID).Count(&total).Error; err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(&model.UserQuestProgress{}).
		Where("char_id = ? AND quest_id = ? AND is_completed = ?", charID, questID, true).
		Count(&done).Error; err != nil {
		return err
	}
	if total == 0 || done < total {
		return nil
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&model.UserQuest{}).
		Where("char_id = ? AND quest_id = ? AND status = ?", charID, questID, model.UserQuestActive).
		Updates(map[string]interface{}{
			"status":       model.UserQuestCompleted,
			"completed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		s.logger.Info("quest completed",
			zap.Int64("char_id", charID),
			zap.Int64("quest_id", questID))
	}
	return nil
}
