package model

import "time"

// Statistics is a character's lifetime counter ledger: one wide row per
// character, one column per counter. Rows are created lazily on first write
// and never deleted while the character exists. All counters are cumulative.
type Statistics struct {
	CharID               int64     `gorm:"primaryKey" json:"char_id"`
	MonstersKilled       int64     `gorm:"default:0" json:"monsters_killed"`
	BossesKilled         int64     `gorm:"default:0" json:"bosses_killed"`
	ResourcesCollected   int64     `gorm:"default:0" json:"resources_collected"`
	ItemsCrafted         int64     `gorm:"default:0" json:"items_crafted"`
	BuildingsConstructed int64     `gorm:"default:0" json:"buildings_constructed"`
	GoldEarned           int64     `gorm:"default:0" json:"gold_earned"`
	GoldSpent            int64     `gorm:"default:0" json:"gold_spent"`
	ItemsTraded          int64     `gorm:"default:0" json:"items_traded"`
	MessagesSent         int64     `gorm:"default:0" json:"messages_sent"`
	DistanceTraveled     int64     `gorm:"default:0" json:"distance_traveled"`
	LoginsTotal          int64     `gorm:"default:0" json:"logins_total"`
	QuestsCompleted      int64     `gorm:"default:0" json:"quests_completed"`
	CommonItemsFound     int64     `gorm:"default:0" json:"common_items_found"`
	RareItemsFound       int64     `gorm:"default:0" json:"rare_items_found"`
	EpicItemsFound       int64     `gorm:"default:0" json:"epic_items_found"`
	LegendaryItemsFound  int64     `gorm:"default:0" json:"legendary_items_found"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
