package ranking

import (
	"context"
	"strconv"

	"github.com/emberquest/server/cache"
	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const goldEarnedKey = "ranking:gold_earned"

// Entry is one row of the gold-earned leaderboard.
type Entry struct {
	Rank       int    `json:"rank"`
	CharID     int64  `json:"char_id"`
	Name       string `json:"name"`
	GoldEarned int64  `json:"gold_earned"`
}

// Service maintains the gold-earned leaderboard in the cache ZSet,
// refreshed periodically from the statistics table.
type Service struct {
	db     *gorm.DB
	cache  cache.Cache
	size   int
	logger *zap.Logger
}

func New(db *gorm.DB, c cache.Cache, size int, logger *zap.Logger) *Service {
	if size <= 0 {
		size = 100
	}
	return &Service{db: db, cache: c, size: size, logger: logger}
}

// Refresh rebuilds the ZSet from the top earners in the statistics table.
// Members are character IDs; scores are lifetime gold earned.
func (s *Service) Refresh(ctx context.Context) error {
	var rows []model.Statistics
	err := s.db.WithContext(ctx).
		Where("gold_earned > 0").
		Order("gold_earned DESC").
		Limit(s.size).
		Find(&rows).Error
	if err != nil {
		return err
	}

	for i := range rows {
		member := strconv.FormatInt(rows[i].CharID, 10)
		if err := s.cache.ZAdd(ctx, goldEarnedKey, float64(rows[i].GoldEarned), member); err != nil {
			return err
		}
	}
	s.logger.Debug("ranking refreshed", zap.Int("entries", len(rows)))
	return nil
}

// Top returns the first n leaderboard entries with character names resolved.
func (s *Service) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > s.size {
		n = s.size
	}
	members, err := s.cache.ZRevRange(ctx, goldEarnedKey, 0, int64(n-1))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(members))
	for i, member := range members {
		charID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		score, err := s.cache.ZScore(ctx, goldEarnedKey, member)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Rank:       i + 1,
			CharID:     charID,
			GoldEarned: int64(score),
		})
	}

	ids := make([]int64, len(entries))
	for i := range entries {
		ids[i] = entries[i].CharID
	}
	var chars []model.Character
	if len(ids) > 0 {
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&chars).Error; err != nil {
			return nil, err
		}
	}
	names := make(map[int64]string, len(chars))
	for i := range chars {
		names[chars[i].ID] = chars[i].Name
	}
	for i := range entries {
		entries[i].Name = names[entries[i].CharID]
	}
	return entries, nil
}
