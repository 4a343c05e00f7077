package quest

import (
	"context"
	"errors"

	"github.com/emberquest/server/model"
	"gorm.io/gorm"
)

// OnCounterIncrement implements stats.Sink. Every statistics increment is
// matched against the objectives of the character's active quests; each
// matching objective advances by the full delta.
func (s *Service) OnCounterIncrement(ctx context.Context, charID int64, counter string, amount int64) error {
	objType, ok := counterObjectives[counter]
	if !ok {
		return nil
	}
	objectives, err := s.activeObjectives(ctx, charID, objType, nil)
	if err != nil {
		return err
	}
	var firstErr error
	for i := range objectives {
		if err := s.advance(ctx, charID, &objectives[i], amount); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OnSpecificEvent advances targeted objectives: kill_specific_monster,
// collect_specific_item, craft_specific_item, construct_specific_building.
// Only objectives of the given type whose target matches advance; generic
// objectives of the same category are driven by their counter instead.
func (s *Service) OnSpecificEvent(ctx context.Context, charID int64, objType ObjectiveType, targetID int64, amount int64) error {
	objectives, err := s.activeObjectives(ctx, charID, objType, &targetID)
	if err != nil {
		return err
	}
	var firstErr error
	for i := range objectives {
		if err := s.advance(ctx, charID, &objectives[i], amount); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OnLevelChange implements reward.LevelSink: level-threshold objectives on
// active quests are raised to the character's new level.
func (s *Service) OnLevelChange(ctx context.Context, charID int64, newLevel int) error {
	objectives, err := s.activeObjectives(ctx, charID, ObjectiveReachLevel, nil)
	if err != nil {
		return err
	}
	var firstErr error
	for i := range objectives {
		if err := s.raiseTo(ctx, charID, &objectives[i], int64(newLevel)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OnGuildJoined implements the guild membership hook: join_guild objectives
// on active quests complete on the character's first (or any) join.
func (s *Service) OnGuildJoined(ctx context.Context, charID int64) error {
	objectives, err := s.activeObjectives(ctx, charID, ObjectiveJoinGuild, nil)
	if err != nil {
		return err
	}
	var firstErr error
	for i := range objectives {
		if err := s.raiseTo(ctx, charID, &objectives[i], 1); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RecordSpecificProgress advances one named objective directly, for event
// producers that already resolved which objective they feed. The objective
// must belong to a quest that is active for the character.
func (s *Service) RecordSpecificProgress(ctx context.Context, charID, objectiveID, amount int64) error {
	var obj model.QuestObjective
	err := s.db.WithContext(ctx).First(&obj, objectiveID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrObjectiveNotFound
	}
	if err != nil {
		return err
	}

	var uq model.UserQuest
	err = s.db.WithContext(ctx).
		Where("char_id = ? AND quest_id = ?", charID, obj.QuestID).
		First(&uq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && uq.Status != model.UserQuestActive) {
		return ErrNotActive
	}
	if err != nil {
		return err
	}
	return s.advance(ctx, charID, &obj, amount)
}

// activeObjectives returns the objectives of the given type across all of
// the character's active quests. A nil targetID selects untargeted
// objectives; a concrete targetID selects objectives aimed at that target.
func (s *Service) activeObjectives(ctx context.Context, charID int64, objType ObjectiveType, targetID *int64) ([]model.QuestObjective, error) {
	q := s.db.WithContext(ctx).Model(&model.QuestObjective{}).
		Select("quest_objectives.*").
		Joins("JOIN user_quests uq ON uq.quest_id = quest_objectives.quest_id").
		Where("uq.char_id = ? AND uq.status = ?", charID, model.UserQuestActive).
		Where("quest_objectives.type = ?", objType)
	if targetID == nil {
		q = q.Where("quest_objectives.target_id IS NULL")
	} else {
		q = q.Where("quest_objectives.target_id = ?", *targetID)
	}

	var objectives []model.QuestObjective
	if err := q.Find(&objectives).Error; err != nil {
		return nil, err
	}
	return objectives, nil
}
