package quest

import "errors"

// Validation and idempotency errors. Handlers map these to user-facing
// rejections; none of them leaves mutated state behind.
var (
	ErrQuestNotFound     = errors.New("quest: not found")
	ErrQuestInactive     = errors.New("quest: not active in catalog")
	ErrObjectiveNotFound = errors.New("quest: objective not found")
	ErrCharacterNotFound = errors.New("quest: character not found")

	ErrLevelTooLow       = errors.New("quest: level too low")
	ErrPrerequisiteUnmet = errors.New("quest: prerequisite not claimed")

	ErrAlreadyActive    = errors.New("quest: already active")
	ErrAlreadyCompleted = errors.New("quest: already completed, claim it first")
	ErrAlreadyClaimed   = errors.New("quest: already claimed")

	ErrNotActive    = errors.New("quest: not active for this character")
	ErrNotCompleted = errors.New("quest: not completed")

	ErrLoginQuestAbandon = errors.New("quest: login quests cannot be abandoned")
)
