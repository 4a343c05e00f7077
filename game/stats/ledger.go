package stats

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrUnknownCounter is returned for counter names outside the fixed set.
	ErrUnknownCounter = errors.New("stats: unknown counter")
	// ErrNegativeAmount is returned for negative increments; all counters
	// are cumulative.
	ErrNegativeAmount = errors.New("stats: negative amount")
)

// Sink receives every successful counter increment so quest objective
// progress can be fanned out. A sink failure never rolls back the counter
// write: the raw statistic is authoritative, lost quest progress is
// recoverable through retroactive seeding.
type Sink interface {
	OnCounterIncrement(ctx context.Context, charID int64, counter string, amount int64) error
}

// Ledger is the per-character lifetime statistics store.
type Ledger struct {
	db     *gorm.DB
	sink   Sink
	logger *zap.Logger
}

// NewLedger creates a Ledger. The progress sink is attached afterwards via
// SetSink because the quest engine that implements it also reads the ledger.
func NewLedger(db *gorm.DB, logger *zap.Logger) *Ledger {
	return &Ledger{db: db, logger: logger}
}

// SetSink attaches the progress fan-out sink.
func (l *Ledger) SetSink(s Sink) {
	l.sink = s
}

// Increment adds amount to the named counter for the character, creating
// the statistics row if it does not exist yet.
func (l *Ledger) Increment(ctx context.Context, charID int64, counter string, amount int64) error {
	column, ok := counterColumns[counter]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
	}
	if amount < 0 {
		return fmt.Errorf("%w: %s %d", ErrNegativeAmount, counter, amount)
	}

	if err := l.ensureRow(ctx, charID); err != nil {
		return err
	}
	err := l.db.WithContext(ctx).Model(&model.Statistics{}).
		Where("char_id = ?", charID).
		Updates(map[string]interface{}{
			column: gorm.Expr(column+" + ?", amount),
		}).Error
	if err != nil {
		return err
	}

	l.fanOut(ctx, charID, counter, amount)
	return nil
}

// IncrementMany adds several counters in one UPDATE statement, then fans
// out each counter individually.
func (l *Ledger) IncrementMany(ctx context.Context, charID int64, counters map[string]int64) error {
	if len(counters) == 0 {
		return nil
	}
	updates := make(map[string]interface{}, len(counters))
	for counter, amount := range counters {
		column, ok := counterColumns[counter]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCounter, counter)
		}
		if amount < 0 {
			return fmt.Errorf("%w: %s %d", ErrNegativeAmount, counter, amount)
		}
		updates[column] = gorm.Expr(column+" + ?", amount)
	}

	if err := l.ensureRow(ctx, charID); err != nil {
		return err
	}
	err := l.db.WithContext(ctx).Model(&model.Statistics{}).
		Where("char_id = ?", charID).
		Updates(updates).Error
	if err != nil {
		return err
	}

	for counter, amount := range counters {
		l.fanOut(ctx, charID, counter, amount)
	}
	return nil
}

// Get returns the character's statistics row, or a zero-valued row if the
// character has no recorded activity yet.
func (l *Ledger) Get(ctx context.Context, charID int64) (*model.Statistics, error) {
	var row model.Statistics
	err := l.db.WithContext(ctx).Where("char_id = ?", charID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.Statistics{CharID: charID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (l *Ledger) fanOut(ctx context.Context, charID int64, counter string, amount int64) {
	if l.sink == nil {
		return
	}
	if err := l.sink.OnCounterIncrement(ctx, charID, counter, amount); err != nil {
		l.logger.Error("progress fan-out failed",
			zap.Int64("char_id", charID),
			zap.String("counter", counter),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}

func (l *Ledger) ensureRow(ctx context.Context, charID int64) error {
	err := l.db.WithContext(ctx).
		Where("char_id = ?", charID).
		Attrs(model.Statistics{CharID: charID}).
		FirstOrCreate(&model.Statistics{}).Error
	if err != nil && isDuplicate(err) {
		// Lost a create race to a concurrent increment; the row exists now.
		return nil
	}
	return err
}

// isDuplicate detects duplicate-key errors from common database drivers.
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
