package model

import "time"

// Character represents a player's in-game character.
type Character struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64     `gorm:"index:idx_account;not null" json:"account_id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	ClassID   int       `gorm:"not null" json:"class_id"`
	Level     int       `gorm:"default:1" json:"level"`
	Exp       int64     `gorm:"default:0" json:"exp"`
	Gold      int64     `gorm:"default:0" json:"gold"`
	HP        int       `gorm:"not null" json:"hp"`
	MaxHP     int       `gorm:"not null" json:"max_hp"`
	ZoneID    int       `gorm:"default:1" json:"zone_id"`
	PosX      int       `gorm:"default:0" json:"pos_x"`
	PosY      int       `gorm:"default:0" json:"pos_y"`
	GuildID   *int64    `json:"guild_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
