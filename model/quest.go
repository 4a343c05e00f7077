package model

import "time"

// QuestCategory groups quests for presentation and special handling.
type QuestCategory = string

const (
	QuestCategoryMain        QuestCategory = "main"
	QuestCategorySide        QuestCategory = "side"
	QuestCategoryDaily       QuestCategory = "daily"
	QuestCategoryWeekly      QuestCategory = "weekly"
	QuestCategoryAchievement QuestCategory = "achievement"
)

// Quest is a catalog entry. Catalog rows are seeded at startup and only
// mutated by administrators.
type Quest struct {
	ID             int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string         `gorm:"uniqueIndex;size:64;not null" json:"name"` // machine name
	Title          string         `gorm:"size:128;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Category       string         `gorm:"size:16;index;not null" json:"category"`
	Repeatable     bool           `gorm:"default:false" json:"repeatable"`
	CooldownHours  int            `gorm:"default:0" json:"cooldown_hours"`
	MinLevel       int            `gorm:"default:1" json:"min_level"`
	PrerequisiteID *int64         `gorm:"index" json:"prerequisite_id"`
	RewardGold     int64          `gorm:"default:0" json:"reward_gold"`
	RewardExp      int64          `gorm:"default:0" json:"reward_exp"`
	RewardItemID   *int64         `json:"reward_item_id"`
	RewardItemQty  int            `gorm:"default:0" json:"reward_item_qty"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	Objectives     []QuestObjective `gorm:"foreignKey:QuestID" json:"objectives"`
}

// QuestObjective is one measurable condition within a quest.
// TargetID narrows the objective to a specific monster/item/building;
// nil means "any of the category".
type QuestObjective struct {
	ID             int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	QuestID        int64  `gorm:"index:idx_objective_quest;not null" json:"quest_id"`
	Type           string `gorm:"size:32;index;not null" json:"type"`
	TargetID       *int64 `json:"target_id"`
	RequiredAmount int64  `gorm:"not null" json:"required_amount"`
	SortOrder      int    `gorm:"default:0" json:"sort_order"`
	Label          string `gorm:"size:128" json:"label"`
}

// UserQuestStatus is the stored quest lifecycle state. "available" is never
// stored: a quest with no UserQuest row is implicitly available (or locked)
// as a pure function of the catalog gates.
type UserQuestStatus = string

const (
	UserQuestActive    UserQuestStatus = "active"
	UserQuestCompleted UserQuestStatus = "completed"
	UserQuestClaimed   UserQuestStatus = "claimed"
)

// UserQuest is the per-(character, quest) state machine record.
type UserQuest struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID      int64      `gorm:"uniqueIndex:idx_char_quest;not null" json:"char_id"`
	QuestID     int64      `gorm:"uniqueIndex:idx_char_quest;not null" json:"quest_id"`
	Status      string     `gorm:"size:16;index;not null" json:"status"`
	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ClaimedAt   *time.Time `json:"claimed_at"`
}

// UserQuestProgress is the per-(character, objective) progress counter.
// CurrentAmount may overshoot RequiredAmount by the final delta; IsCompleted
// is the authoritative flag and is monotonic (never unset while the row lives).
type UserQuestProgress struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID        int64     `gorm:"uniqueIndex:idx_char_objective;not null" json:"char_id"`
	ObjectiveID   int64     `gorm:"uniqueIndex:idx_char_objective;not null" json:"objective_id"`
	QuestID       int64     `gorm:"index:idx_progress_quest;not null" json:"quest_id"`
	CurrentAmount int64     `gorm:"default:0" json:"current_amount"`
	IsCompleted   bool      `gorm:"default:false" json:"is_completed"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
