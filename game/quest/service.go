package quest

import (
	"context"
	"errors"
	"time"

	"github.com/emberquest/server/game/stats"
	"github.com/emberquest/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RewardSink grants claim rewards. Implemented by the reward dispatcher;
// decoupled here so the engine does not depend on the economy package.
type RewardSink interface {
	GrantGold(ctx context.Context, charID int64, amount int64) error
	GrantExperience(ctx context.Context, charID int64, amount int64) error
	GrantItem(ctx context.Context, charID int64, itemID int64, qty int) error
}

// Notifier publishes out-of-band announcements, e.g. achievement claims to
// a chat webhook. Implementations must not block the caller.
type Notifier interface {
	QuestClaimed(charID int64, quest *model.Quest)
}

// StatsRecorder is the slice of the statistics ledger the engine writes to
// (the quests_completed bookkeeping counter on claim).
type StatsRecorder interface {
	Increment(ctx context.Context, charID int64, counter string, amount int64) error
}

// Service is the quest engine: catalog gating, the per-character quest
// state machine, objective progress fan-out, and the daily login rule.
type Service struct {
	db       *gorm.DB
	rewards  RewardSink
	stats    StatsRecorder
	notifier Notifier
	seeders  map[ObjectiveType]SeedFunc
	logger   *zap.Logger
}

func NewService(db *gorm.DB, rewards RewardSink, logger *zap.Logger) *Service {
	return &Service{
		db:      db,
		rewards: rewards,
		seeders: defaultSeeders(),
		logger:  logger,
	}
}

// SetStatsRecorder attaches the ledger. Set after construction: the ledger's
// fan-out sink is this service, so neither can be built first.
func (s *Service) SetStatsRecorder(r StatsRecorder) {
	s.stats = r
}

// SetNotifier attaches an optional announcement publisher.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Accept starts a quest for a character. Catalog gates (active flag, level,
// prerequisite) and the one-record-per-pair rule are checked first; then
// progress rows are created pre-seeded from historical activity. A quest
// whose every objective is already satisfied by history lands directly in
// completed, ready to claim.
func (s *Service) Accept(ctx context.Context, charID, questID int64) (*model.UserQuest, error) {
	var char model.Character
	err := s.db.WithContext(ctx).First(&char, charID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCharacterNotFound
	}
	if err != nil {
		return nil, err
	}

	var q model.Quest
	err = s.db.WithContext(ctx).Preload("Objectives").First(&q, questID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, err
	}
	if !q.IsActive {
		return nil, ErrQuestInactive
	}
	if char.Level < q.MinLevel {
		return nil, ErrLevelTooLow
	}
	if q.PrerequisiteID != nil {
		var prereq model.UserQuest
		err = s.db.WithContext(ctx).
			Where("char_id = ? AND quest_id = ?", charID, *q.PrerequisiteID).
			First(&prereq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && prereq.Status != model.UserQuestClaimed) {
			return nil, ErrPrerequisiteUnmet
		}
		if err != nil {
			return nil, err
		}
	}

	var existing model.UserQuest
	err = s.db.WithContext(ctx).
		Where("char_id = ? AND quest_id = ?", charID, questID).
		First(&existing).Error
	if err == nil {
		switch existing.Status {
		case model.UserQuestActive:
			return nil, ErrAlreadyActive
		case model.UserQuestCompleted:
			return nil, ErrAlreadyCompleted
		default:
			return nil, ErrAlreadyClaimed
		}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rows, allDone, err := s.seedProgress(ctx, charID, q.Objectives)
	if err != nil {
		return nil, err
	}

	uq := model.UserQuest{
		CharID:  charID,
		QuestID: questID,
		Status:  model.UserQuestActive,
	}
	if allDone {
		now := time.Now()
		uq.Status = model.UserQuestCompleted
		uq.CompletedAt = &now
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Clear stale rows from a previous acceptance of a repeatable quest.
		err := tx.Where("char_id = ? AND quest_id = ?", charID, questID).
			Delete(&model.UserQuestProgress{}).Error
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Create(&uq).Error
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quest accepted",
		zap.Int64("char_id", charID),
		zap.Int64("quest_id", questID),
		zap.String("status", uq.Status))
	return &uq, nil
}

// ClaimResult reports what a successful claim granted.
type ClaimResult struct {
	Quest   *model.Quest `json:"quest"`
	Gold    int64        `json:"gold"`
	Exp     int64        `json:"exp"`
	ItemID  *int64       `json:"item_id,omitempty"`
	ItemQty int          `json:"item_qty,omitempty"`
}

// Claim turns a completed quest in. The completed→claimed flip is a single
// guarded UPDATE, so two racing claims grant rewards exactly once. Reward
// gold flows back through the ledger as gold_earned and may itself complete
// an earn_gold objective; a claimed quest never re-enters the pipeline, so
// the feedback stops there.
func (s *Service) Claim(ctx context.Context, charID, questID int64) (*ClaimResult, error) {
	var q model.Quest
	err := s.db.WithContext(ctx).First(&q, questID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	res := s.db.WithContext(ctx).Model(&model.UserQuest{}).
		Where("char_id = ? AND quest_id = ? AND status = ?", charID, questID, model.UserQuestCompleted).
		Updates(map[string]interface{}{
			"status":     model.UserQuestClaimed,
			"claimed_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var uq model.UserQuest
		err = s.db.WithContext(ctx).
			Where("char_id = ? AND quest_id = ?", charID, questID).
			First(&uq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotActive
		}
		if err != nil {
			return nil, err
		}
		if uq.Status == model.UserQuestClaimed {
			return nil, ErrAlreadyClaimed
		}
		return nil, ErrNotCompleted
	}

	result := &ClaimResult{Quest: &q}
	if q.RewardGold > 0 {
		if err := s.rewards.GrantGold(ctx, charID, q.RewardGold); err != nil {
			s.logger.Error("gold grant failed",
				zap.Int64("char_id", charID), zap.Int64("quest_id", questID), zap.Error(err))
		} else {
			result.Gold = q.RewardGold
		}
	}
	if q.RewardExp > 0 {
		if err := s.rewards.GrantExperience(ctx, charID, q.RewardExp); err != nil {
			s.logger.Error("exp grant failed",
				zap.Int64("char_id", charID), zap.Int64("quest_id", questID), zap.Error(err))
		} else {
			result.Exp = q.RewardExp
		}
	}
	if q.RewardItemID != nil && q.RewardItemQty > 0 {
		if err := s.rewards.GrantItem(ctx, charID, *q.RewardItemID, q.RewardItemQty); err != nil {
			s.logger.Error("item grant failed",
				zap.Int64("char_id", charID), zap.Int64("quest_id", questID), zap.Error(err))
		} else {
			result.ItemID = q.RewardItemID
			result.ItemQty = q.RewardItemQty
		}
	}

	if s.stats != nil {
		if err := s.stats.Increment(ctx, charID, stats.CounterQuestsCompleted, 1); err != nil {
			s.logger.Error("quests_completed increment failed",
				zap.Int64("char_id", charID), zap.Error(err))
		}
	}
	if s.notifier != nil && q.Category == model.QuestCategoryAchievement {
		s.notifier.QuestClaimed(charID, &q)
	}

	s.logger.Info("quest claimed",
		zap.Int64("char_id", charID),
		zap.Int64("quest_id", questID),
		zap.Int64("gold", result.Gold),
		zap.Int64("exp", result.Exp))
	return result, nil
}

// Abandon drops an active quest and its progress. Completed or claimed
// quests cannot be abandoned, and login quests never can: their state is
// recreated on the next login anyway.
func (s *Service) Abandon(ctx context.Context, charID, questID int64) error {
	var uq model.UserQuest
	err := s.db.WithContext(ctx).
		Where("char_id = ? AND quest_id = ?", charID, questID).
		First(&uq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotActive
	}
	if err != nil {
		return err
	}
	if uq.Status != model.UserQuestActive {
		return ErrNotActive
	}

	var loginObjectives int64
	err = s.db.WithContext(ctx).Model(&model.QuestObjective{}).
		Where("quest_id = ? AND type = ?", questID, ObjectiveDailyLogin).
		Count(&loginObjectives).Error
	if err != nil {
		return err
	}
	if loginObjectives > 0 {
		return ErrLoginQuestAbandon
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("char_id = ? AND quest_id = ?", charID, questID).
			Delete(&model.UserQuestProgress{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(&model.UserQuest{}, uq.ID).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("quest abandoned",
		zap.Int64("char_id", charID),
		zap.Int64("quest_id", questID))
	return nil
}

// Derived presentation statuses for quests without a state record.
const (
	statusAvailable = "available"
	statusLocked    = "locked"
)

// ObjectiveView is one objective with the character's progress folded in.
type ObjectiveView struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	TargetID  *int64 `json:"target_id,omitempty"`
	Label     string `json:"label"`
	Current   int64  `json:"current"`
	Required  int64  `json:"required"`
	Completed bool   `json:"completed"`
}

// QuestView is one catalog quest annotated with the character's state.
type QuestView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Repeatable  bool            `json:"repeatable"`
	MinLevel    int             `json:"min_level"`
	RewardGold  int64           `json:"reward_gold"`
	RewardExp   int64           `json:"reward_exp"`
	Status      string          `json:"status"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	ClaimedAt   *time.Time      `json:"claimed_at,omitempty"`
	Objectives  []ObjectiveView `json:"objectives"`
}

// ListForCharacter returns every active catalog quest with the character's
// status and per-objective progress. Quests without a state record derive
// available or locked from the catalog gates; locked covers both level and
// prerequisite failures.
func (s *Service) ListForCharacter(ctx context.Context, char *model.Character) ([]QuestView, error) {
	var quests []model.Quest
	err := s.db.WithContext(ctx).
		Preload("Objectives", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&quests).Error
	if err != nil {
		return nil, err
	}

	var records []model.UserQuest
	err = s.db.WithContext(ctx).Where("char_id = ?", char.ID).Find(&records).Error
	if err != nil {
		return nil, err
	}
	byQuest := make(map[int64]*model.UserQuest, len(records))
	for i := range records {
		byQuest[records[i].QuestID] = &records[i]
	}

	var progress []model.UserQuestProgress
	err = s.db.WithContext(ctx).Where("char_id = ?", char.ID).Find(&progress).Error
	if err != nil {
		return nil, err
	}
	byObjective := make(map[int64]*model.UserQuestProgress, len(progress))
	for i := range progress {
		byObjective[progress[i].ObjectiveID] = &progress[i]
	}

	views := make([]QuestView, 0, len(quests))
	for i := range quests {
		q := &quests[i]
		view := QuestView{
			ID:          q.ID,
			Name:        q.Name,
			Title:       q.Title,
			Description: q.Description,
			Category:    q.Category,
			Repeatable:  q.Repeatable,
			MinLevel:    q.MinLevel,
			RewardGold:  q.RewardGold,
			RewardExp:   q.RewardExp,
		}

		if rec, ok := byQuest[q.ID]; ok {
			view.Status = rec.Status
			started := rec.StartedAt
			view.StartedAt = &started
			view.CompletedAt = rec.CompletedAt
			view.ClaimedAt = rec.ClaimedAt
		} else {
			view.Status = statusAvailable
			if char.Level < q.MinLevel {
				view.Status = statusLocked
			} else if q.PrerequisiteID != nil {
				prereq, ok := byQuest[*q.PrerequisiteID]
				if !ok || prereq.Status != model.UserQuestClaimed {
					view.Status = statusLocked
				}
			}
		}

		for j := range q.Objectives {
			obj := &q.Objectives[j]
			ov := ObjectiveView{
				ID:       obj.ID,
				Type:     obj.Type,
				TargetID: obj.TargetID,
				Label:    obj.Label,
				Required: obj.RequiredAmount,
			}
			if p, ok := byObjective[obj.ID]; ok {
				ov.Current = p.CurrentAmount
				ov.Completed = p.IsCompleted
			}
			view.Objectives = append(view.Objectives, ov)
		}
		views = append(views, view)
	}
	return views, nil
}

// OnLogin runs the per-login hooks: the daily login rule and automatic
// activation of achievement quests the character newly qualifies for.
func (s *Service) OnLogin(ctx context.Context, charID int64) error {
	if err := s.EvaluateDailyLogin(ctx, charID, time.Now()); err != nil {
		return err
	}
	return s.autoActivateAchievements(ctx, charID)
}

// autoActivateAchievements accepts every eligible achievement quest the
// character has no record for yet. Achievements track lifetime totals, so
// they start counting as early as possible rather than waiting for the
// player to find them in the UI.
func (s *Service) autoActivateAchievements(ctx context.Context, charID int64) error {
	var quests []model.Quest
	err := s.db.WithContext(ctx).
		Where("category = ? AND is_active = ?", model.QuestCategoryAchievement, true).
		Find(&quests).Error
	if err != nil {
		return err
	}
	for i := range quests {
		_, err := s.Accept(ctx, charID, quests[i].ID)
		switch {
		case err == nil:
		case errors.Is(err, ErrAlreadyActive),
			errors.Is(err, ErrAlreadyCompleted),
			errors.Is(err, ErrAlreadyClaimed),
			errors.Is(err, ErrLevelTooLow),
			errors.Is(err, ErrPrerequisiteUnmet):
			// Not eligible yet or already tracked; try again next login.
		default:
			return err
		}
	}
	return nil
}
