package quest

import (
	"context"
	"errors"

	"github.com/emberquest/server/model"
	"gorm.io/gorm"
)

// SeedFunc computes a character's pre-existing progress toward one
// objective, so that accepting a quest credits activity from before the
// accept. Returning 0 means "start from scratch".
type SeedFunc func(ctx context.Context, db *gorm.DB, charID int64, obj *model.QuestObjective) (int64, error)

// RegisterSeeder installs or replaces the seed function for an objective
// type. Call before the service starts handling requests.
func (s *Service) RegisterSeeder(objType ObjectiveType, fn SeedFunc) {
	s.seeders[objType] = fn
}

func defaultSeeders() map[ObjectiveType]SeedFunc {
	return map[ObjectiveType]SeedFunc{
		ObjectiveKillMonster:         statisticsSeeder("monsters_killed"),
		ObjectiveKillBoss:            statisticsSeeder("bosses_killed"),
		ObjectiveCollectResource:     statisticsSeeder("resources_collected"),
		ObjectiveCraftItem:           statisticsSeeder("items_crafted"),
		ObjectiveConstructBuilding:   statisticsSeeder("buildings_constructed"),
		ObjectiveEarnGold:            statisticsSeeder("gold_earned"),
		ObjectiveTradeItem:           statisticsSeeder("items_traded"),
		ObjectiveSendMessage:         statisticsSeeder("messages_sent"),
		ObjectiveTravelDistance:      statisticsSeeder("distance_traveled"),
		ObjectiveKillSpecificMonster: seedSpecificMonsterKills,
		ObjectiveCollectSpecificItem: seedInventoryQuantity,
		ObjectiveReachLevel:          seedCharacterLevel,
		ObjectiveJoinGuild:           seedGuildMembership,
		// craft_specific_item, construct_specific_building and daily_login
		// have no historical record to replay; they seed at zero.
	}
}

// statisticsSeeder reads one column of the character's statistics row.
// Column names come from the fixed map above, never from input.
func statisticsSeeder(column string) SeedFunc {
	return func(ctx context.Context, db *gorm.DB, charID int64, _ *model.QuestObjective) (int64, error) {
		var value int64
		err := db.WithContext(ctx).Model(&model.Statistics{}).
			Where("char_id = ?", charID).
			Select(column).
			Scan(&value).Error
		return value, err
	}
}

func seedSpecificMonsterKills(ctx context.Context, db *gorm.DB, charID int64, obj *model.QuestObjective) (int64, error) {
	if obj.TargetID == nil {
		return 0, nil
	}
	var count int64
	err := db.WithContext(ctx).Model(&model.CombatLog{}).
		Where("char_id = ? AND monster_id = ? AND won = ?", charID, *obj.TargetID, true).
		Count(&count).Error
	return count, err
}

func seedInventoryQuantity(ctx context.Context, db *gorm.DB, charID int64, obj *model.QuestObjective) (int64, error) {
	if obj.TargetID == nil {
		return 0, nil
	}
	var qty int64
	err := db.WithContext(ctx).Model(&model.Inventory{}).
		Where("char_id = ? AND item_id = ?", charID, *obj.TargetID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&qty).Error
	return qty, err
}

func seedCharacterLevel(ctx context.Context, db *gorm.DB, charID int64, _ *model.QuestObjective) (int64, error) {
	var char model.Character
	err := db.WithContext(ctx).First(&char, charID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int64(char.Level), nil
}

func seedGuildMembership(ctx context.Context, db *gorm.DB, charID int64, _ *model.QuestObjective) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.GuildMember{}).
		Where("char_id = ?", charID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 1, nil
	}
	return 0, nil
}

// seedProgress builds the initial progress rows for a freshly accepted
// quest. Seeded amounts are clamped to the objective's requirement so a
// veteran's huge totals do not overflow the display.
func (s *Service) seedProgress(ctx context.Context, charID int64, objectives []model.QuestObjective) ([]model.UserQuestProgress, bool, error) {
	rows := make([]model.UserQuestProgress, 0, len(objectives))
	allDone := len(objectives) > 0
	for i := range objectives {
		obj := &objectives[i]
		var seeded int64
		if fn, ok := s.seeders[obj.Type]; ok {
			var err error
			seeded, err = fn(ctx, s.db, charID, obj)
			if err != nil {
				return nil, false, err
			}
		}
		if seeded > obj.RequiredAmount {
			seeded = obj.RequiredAmount
		}
		if seeded < 0 {
			seeded = 0
		}
		done := seeded >= obj.RequiredAmount
		if !done {
			allDone = false
		}
		rows = append(rows, model.UserQuestProgress{
			CharID:        charID,
			ObjectiveID:   obj.ID,
			QuestID:       obj.QuestID,
			CurrentAmount: seeded,
			IsCompleted:   done,
		})
	}
	return rows, allDone, nil
}
