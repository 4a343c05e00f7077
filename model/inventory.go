package model

import "time"

// ItemRarity tiers, used by the rarity-counter statistics.
type ItemRarity = int

const (
	RarityCommon    ItemRarity = 0
	RarityRare      ItemRarity = 1
	RarityEpic      ItemRarity = 2
	RarityLegendary ItemRarity = 3
)

// Inventory represents a single item stack in a character's bag.
// Written by the item/crafting subsystems; the quest engine reads it for
// collect_specific_item retroactive seeding.
type Inventory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID    int64     `gorm:"index:idx_char_inventory;not null" json:"char_id"`
	ItemID    int64     `gorm:"index;not null" json:"item_id"`
	Rarity    int       `gorm:"default:0" json:"rarity"`
	Qty       int64     `gorm:"default:1" json:"qty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
