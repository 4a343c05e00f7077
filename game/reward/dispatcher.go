package reward

import (
	"context"
	"errors"

	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrCharacterNotFound is returned when granting to a character that does
// not exist.
var ErrCharacterNotFound = errors.New("reward: character not found")

const maxLevel = 99

// LevelSink is told when a grant raises a character's level. The quest
// engine implements it to advance level-threshold objectives.
type LevelSink interface {
	OnLevelChange(ctx context.Context, charID int64, newLevel int) error
}

// Dispatcher applies quest rewards to characters. Gold grants flow back
// through the statistics ledger as earned gold, so a reward can itself
// advance gold objectives on other quests.
type Dispatcher struct {
	db     *gorm.DB
	ledger *stats.Ledger
	levels LevelSink
	logger *zap.Logger
}

func NewDispatcher(db *gorm.DB, ledger *stats.Ledger, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{db: db, ledger: ledger, logger: logger}
}

// SetLevelSink attaches the level-change listener.
func (d *Dispatcher) SetLevelSink(s LevelSink) {
	d.levels = s
}

// GrantGold credits gold to the character and records it as earned.
func (d *Dispatcher) GrantGold(ctx context.Context, charID int64, amount int64) error {
	if amount <= 0 {
		return nil
	}
	res := d.db.WithContext(ctx).Model(&model.Character{}).
		Where("id = ?", charID).
		UpdateColumn("gold", gorm.Expr("gold + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCharacterNotFound
	}
	return d.ledger.Increment(ctx, charID, stats.CounterGoldEarned, amount)
}

// expToReach is the cumulative experience required to hold a level.
func expToReach(level int) int64 {
	return int64(50 * level * (level - 1))
}

// GrantExperience credits experience and applies any level-ups it causes.
func (d *Dispatcher) GrantExperience(ctx context.Context, charID int64, amount int64) error {
	if amount <= 0 {
		return nil
	}

	var char model.Character
	err := d.db.WithContext(ctx).First(&char, charID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCharacterNotFound
	}
	if err != nil {
		return err
	}

	newExp := char.Exp + amount
	newLevel := char.Level
	for newLevel < maxLevel && newExp >= expToReach(newLevel+1) {
		newLevel++
	}

	err = d.db.WithContext(ctx).Model(&model.Character{}).
		Where("id = ?", charID).
		Updates(map[string]interface{}{
			"exp":   newExp,
			"level": newLevel,
		}).Error
	if err != nil {
		return err
	}

	if newLevel > char.Level {
		d.logger.Info("level up",
			zap.Int64("char_id", charID),
			zap.Int("from", char.Level),
			zap.Int("to", newLevel))
		if d.levels != nil {
			if err := d.levels.OnLevelChange(ctx, charID, newLevel); err != nil {
				d.logger.Error("level change fan-out failed",
					zap.Int64("char_id", charID), zap.Error(err))
			}
		}
	}
	return nil
}

// GrantItem adds an item stack to the character's inventory, merging into
// an existing stack of the same item.
func (d *Dispatcher) GrantItem(ctx context.Context, charID int64, itemID int64, qty int) error {
	if qty <= 0 {
		return nil
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Inventory{}).
			Where("char_id = ? AND item_id = ?", charID, itemID).
			UpdateColumn("qty", gorm.Expr("qty + ?", qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		return tx.Create(&model.Inventory{
			CharID: charID,
			ItemID: itemID,
			Qty:    int64(qty),
		}).Error
	})
}
