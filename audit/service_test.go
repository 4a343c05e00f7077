package audit

import (
	"testing"

	"github.com/emberquest/server/model"
	"github.com/emberquest/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogAndFlushOnStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())

	charID := int64(5)
	questID := int64(3)
	svc.Log(Entry{
		TraceID: "trace-1",
		CharID:  &charID,
		Action:  "quest_claim",
		QuestID: &questID,
		Request: map[string]int64{"quest_id": questID},
	})
	svc.Stop(nil)

	var rows []model.AuditLog
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "quest_claim", rows[0].Action)
	assert.Equal(t, "trace-1", rows[0].TraceID)
	require.NotNil(t, rows[0].QuestID)
	assert.Equal(t, questID, *rows[0].QuestID)
}

func TestStopIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := New(db, zap.NewNop())
	svc.Stop(nil)
	svc.Stop(nil)
}
