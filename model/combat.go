package model

import "time"

// CombatLog records one resolved fight. Written by the combat subsystem;
// the quest engine reads won-fight counts for kill_specific_monster
// retroactive seeding.
type CombatLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CharID    int64     `gorm:"index:idx_combat_char;not null" json:"char_id"`
	MonsterID int64     `gorm:"index:idx_combat_monster;not null" json:"monster_id"`
	IsBoss    bool      `gorm:"default:false" json:"is_boss"`
	Won       bool      `gorm:"default:false" json:"won"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
