package audit

import (
	"strings"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/domain/entities"

	"github.com/bwmarrin/snowflake"
)

// Actions recorded in quote history.
const (
	ActionCreated          = "created"
	ActionChangedStatus    = "changed status"
	ActionCancelled        = "cancelled"
	ActionMarkedForUpdate  = "marked for update"
	ActionConfirmed        = "confirmed"
	ActionAttachedPhotos   = "attached photos"
	ActionAttachedDocument = "attached documents"
	ActionAttachedReceipt  = "attached receipt"
)

// Extra keys.
const (
	ExtraReason = "reason"
	ExtraCount  = "count"
)

// Builder produces history entries. Entries are values: once appended nobody edits them.
type Builder struct {
	genID *snowflake.Node
	clock clock.Clock
}

func NewBuilder(genID *snowflake.Node, clk clock.Clock) *Builder {
	return &Builder{genID: genID, clock: clk}
}

// MakeEntry stamps a fresh id and the current time. Actor id and name stay nil when
// there is no actor. Extra is copied so later changes by the caller do not leak in.
func (b *Builder) MakeEntry(actor *entities.Actor, action string, from *entities.QuoteStatus, to entities.QuoteStatus, extra map[string]any) entities.AuditEntry {
	entry := entities.AuditEntry{
		ID:        b.genID.Generate().String(),
		Timestamp: b.clock.Now(),
		Action:    action,
		ToStatus:  to,
	}
	if from != nil {
		f := *from
		entry.FromStatus = &f
	}
	if actor != nil {
		if id := strings.TrimSpace(actor.ID); id != "" {
			entry.ActorID = &id
		}
		if name := strings.TrimSpace(actor.Name); name != "" {
			entry.ActorName = &name
		}
	}
	if len(extra) > 0 {
		entry.Extra = make(map[string]any, len(extra))
		for k, v := range extra {
			if k == "" {
				continue
			}
			entry.Extra[k] = v
		}
	}
	return entry
}

// Append returns a new history slice with entry at the end, leaving the input untouched.
func Append(history []entities.AuditEntry, entry entities.AuditEntry) []entities.AuditEntry {
	out := make([]entities.AuditEntry, len(history), len(history)+1)
	copy(out, history)
	return append(out, entry)
}

func StatusPtr(s entities.QuoteStatus) *entities.QuoteStatus {
	return &s
}
