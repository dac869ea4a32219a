package audit

import (
	"testing"
	"time"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/entities"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(t *testing.T, now time.Time) *Builder {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return NewBuilder(node, clock.NewFakeClock(now))
}

func TestMakeEntry(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	b := newTestBuilder(t, now)
	actor := &entities.Actor{ID: "u1", Name: "Maria"}

	extra := map[string]any{ExtraReason: "customer withdrew"}
	entry := b.MakeEntry(actor, ActionCancelled, StatusPtr(entities.StatusConfirmed), entities.StatusCancelled, extra)
	extra[ExtraReason] = "mutated"

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, now, entry.Timestamp)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "u1", *entry.ActorID)
	require.NotNil(t, entry.ActorName)
	assert.Equal(t, "Maria", *entry.ActorName)
	require.NotNil(t, entry.FromStatus)
	assert.Equal(t, entities.StatusConfirmed, *entry.FromStatus)
	assert.Equal(t, entities.StatusCancelled, entry.ToStatus)
	assert.Equal(t, "customer withdrew", entry.Extra[ExtraReason])
}

func TestMakeEntryWithoutActor(t *testing.T) {
	b := newTestBuilder(t, time.Now())

	entry := b.MakeEntry(nil, ActionCreated, nil, entities.StatusUnderReview, nil)

	assert.Nil(t, entry.ActorID)
	assert.Nil(t, entry.ActorName)
	assert.Nil(t, entry.FromStatus)
	assert.Nil(t, entry.Extra)
}

func TestMakeEntryIDsAreUnique(t *testing.T) {
	b := newTestBuilder(t, time.Now())
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		e := b.MakeEntry(nil, ActionChangedStatus, nil, entities.StatusConfirmed, nil)
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
	}
}

func TestAppendDoesNotAliasInput(t *testing.T) {
	b := newTestBuilder(t, time.Now())
	history := make([]entities.AuditEntry, 1, 4)
	history[0] = b.MakeEntry(nil, ActionCreated, nil, entities.StatusUnderReview, nil)

	next := Append(history, b.MakeEntry(nil, ActionConfirmed, nil, entities.StatusConfirmed, nil))
	other := Append(history, b.MakeEntry(nil, ActionCancelled, nil, entities.StatusCancelled, nil))

	assert.Len(t, history, 1)
	assert.Equal(t, ActionConfirmed, next[1].Action)
	assert.Equal(t, ActionCancelled, other[1].Action)
}
