package quest

import (
	"context"
	"errors"

	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func int64ptr(v int64) *int64 { return &v }

type catalogDef struct {
	quest        model.Quest
	objectives   []model.QuestObjective
	prerequisite string // machine name of the prerequisite quest, if any
}

// builtinCatalog is the quest set shipped with the server. Admin-created
// quests live alongside it; seeding never touches rows it does not own.
func builtinCatalog() []catalogDef {
	return []catalogDef{
		{
			quest: model.Quest{
				Name: "first_blood", Title: "First Blood",
				Description: "Defeat your first monsters in the wilds.",
				Category:    model.QuestCategoryMain, MinLevel: 1,
				RewardGold: 50, RewardExp: 100, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveKillMonster, RequiredAmount: 10, Label: "Slay 10 monsters"},
			},
		},
		{
			quest: model.Quest{
				Name: "wolf_cull", Title: "Cull the Wolves",
				Description: "The dire wolves around the village grow bold.",
				Category:    model.QuestCategorySide, MinLevel: 3,
				RewardGold: 120, RewardExp: 250, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveKillSpecificMonster, TargetID: int64ptr(101), RequiredAmount: 5, Label: "Slay 5 dire wolves"},
			},
			prerequisite: "first_blood",
		},
		{
			quest: model.Quest{
				Name: "bog_tyrant", Title: "The Bog Tyrant",
				Description: "A boss stirs in the southern marsh.",
				Category:    model.QuestCategoryMain, MinLevel: 8,
				RewardGold: 500, RewardExp: 1200,
				RewardItemID: int64ptr(2001), RewardItemQty: 1, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveKillBoss, RequiredAmount: 1, Label: "Defeat a boss"},
				{Type: ObjectiveCollectResource, RequiredAmount: 20, SortOrder: 1, Label: "Gather 20 marsh reeds"},
			},
			prerequisite: "wolf_cull",
		},
		{
			quest: model.Quest{
				Name: "apprentice_smith", Title: "Apprentice Smith",
				Description: "Prove yourself at the forge.",
				Category:    model.QuestCategorySide, MinLevel: 2,
				RewardGold: 80, RewardExp: 150, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveCraftItem, RequiredAmount: 5, Label: "Craft 5 items"},
			},
		},
		{
			quest: model.Quest{
				Name: "homesteader", Title: "Homesteader",
				Description: "Raise your first buildings.",
				Category:    model.QuestCategorySide, MinLevel: 5,
				RewardGold: 200, RewardExp: 400, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveConstructBuilding, RequiredAmount: 3, Label: "Construct 3 buildings"},
			},
		},
		{
			quest: model.Quest{
				Name: "daily_login", Title: "Daily Check-In",
				Description: "Log in today and collect your reward.",
				Category:    model.QuestCategoryDaily, Repeatable: true,
				MinLevel: 1, RewardGold: 25, RewardExp: 50, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveDailyLogin, RequiredAmount: 1, Label: "Log in"},
			},
		},
		{
			quest: model.Quest{
				Name: "weekly_hunter", Title: "Weekly Hunt",
				Description: "Keep the monster population in check this week.",
				Category:    model.QuestCategoryWeekly, Repeatable: true, CooldownHours: 168,
				MinLevel: 5, RewardGold: 400, RewardExp: 800, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveKillMonster, RequiredAmount: 100, Label: "Slay 100 monsters"},
			},
		},
		{
			quest: model.Quest{
				Name: "merchant_apprentice", Title: "Merchant Apprentice",
				Description: "Learn the flow of coin through the market.",
				Category:    model.QuestCategorySide, MinLevel: 3,
				RewardGold: 150, RewardExp: 200, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveTradeItem, RequiredAmount: 10, Label: "Trade 10 items"},
				{Type: ObjectiveEarnGold, RequiredAmount: 500, SortOrder: 1, Label: "Earn 500 gold"},
			},
		},
		{
			quest: model.Quest{
				Name: "achievement_slayer_50", Title: "Monster Slayer",
				Description: "Slay 50 monsters over your career.",
				Category:    model.QuestCategoryAchievement, MinLevel: 1,
				RewardGold: 300, RewardExp: 600, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveKillMonster, RequiredAmount: 50, Label: "Slay 50 monsters"},
			},
		},
		{
			quest: model.Quest{
				Name: "achievement_wanderer", Title: "Wanderer",
				Description: "Travel 10,000 paces across the realm.",
				Category:    model.QuestCategoryAchievement, MinLevel: 1,
				RewardGold: 250, RewardExp: 500, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveTravelDistance, RequiredAmount: 10000, Label: "Travel 10,000 paces"},
			},
		},
		{
			quest: model.Quest{
				Name: "achievement_voice", Title: "Voice of the Realm",
				Description: "Send 100 chat messages.",
				Category:    model.QuestCategoryAchievement, MinLevel: 1,
				RewardGold: 100, RewardExp: 200, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveSendMessage, RequiredAmount: 100, Label: "Send 100 messages"},
			},
		},
		{
			quest: model.Quest{
				Name: "rise_to_ten", Title: "Rise to Ten",
				Description: "Reach level 10.",
				Category:    model.QuestCategoryMain, MinLevel: 1,
				RewardGold: 300, RewardExp: 0, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveReachLevel, RequiredAmount: 10, Label: "Reach level 10"},
			},
		},
		{
			quest: model.Quest{
				Name: "band_together", Title: "Band Together",
				Description: "Join a guild and find your people.",
				Category:    model.QuestCategorySide, MinLevel: 5,
				RewardGold: 150, RewardExp: 300, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveJoinGuild, RequiredAmount: 1, Label: "Join a guild"},
			},
		},
		{
			quest: model.Quest{
				Name: "reed_collector", Title: "Reed Collector",
				Description: "The alchemist needs whisperreed, and lots of it.",
				Category:    model.QuestCategorySide, MinLevel: 4,
				RewardGold: 180, RewardExp: 220, IsActive: true,
			},
			objectives: []model.QuestObjective{
				{Type: ObjectiveCollectSpecificItem, TargetID: int64ptr(3010), RequiredAmount: 15, Label: "Collect 15 whisperreed"},
			},
		},
	}
}

// SeedCatalog inserts the built-in quests that are not present yet, matched
// by machine name, and resolves prerequisite links. Existing rows are left
// untouched so admin edits survive restarts.
func SeedCatalog(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	defs := builtinCatalog()
	idByName := make(map[string]int64, len(defs))

	for i := range defs {
		def := &defs[i]
		var existing model.Quest
		err := db.WithContext(ctx).Where("name = ?", def.quest.Name).First(&existing).Error
		if err == nil {
			idByName[def.quest.Name] = existing.ID
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		q := def.quest
		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&q).Error; err != nil {
				return err
			}
			for j := range def.objectives {
				obj := def.objectives[j]
				obj.QuestID = q.ID
				if err := tx.Create(&obj).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		idByName[def.quest.Name] = q.ID
		logger.Info("seeded quest", zap.String("name", q.Name), zap.Int64("id", q.ID))
	}

	// Second pass: prerequisites may point at quests seeded later in the list.
	for i := range defs {
		def := &defs[i]
		if def.prerequisite == "" {
			continue
		}
		prereqID, ok := idByName[def.prerequisite]
		if !ok {
			continue
		}
		err := db.WithContext(ctx).Model(&model.Quest{}).
			Where("name = ? AND prerequisite_id IS NULL", def.quest.Name).
			Update("prerequisite_id", prereqID).Error
		if err != nil {
			return err
		}
	}
	return nil
}
