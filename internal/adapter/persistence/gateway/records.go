package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal_orcamentos/internal/domain/entities"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	schemaQuotes  = "quotes"
	schemaUsers   = "users"
	recordVersion = 1
)

var errUnsupportedVersion = errors.New("unsupported record version")

// envelope is the stored shape of a collection.
type envelope[T any] struct {
	Schema  string `json:"schema"`
	Version int    `json:"version"`
	Records []T    `json:"records"`
}

// userRecord is the stored shape of a user. Unlike entities.User it carries the
// password hash.
type userRecord struct {
	ID           string    `json:"id" validate:"required"`
	LegalName    string    `json:"legal_name"`
	TaxID        string    `json:"tax_id"`
	StateTaxID   string    `json:"state_tax_id"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email" validate:"required"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toUserRecord(u entities.User) userRecord {
	return userRecord{
		ID:           u.ID,
		LegalName:    u.LegalName,
		TaxID:        u.TaxID,
		StateTaxID:   u.StateTaxID,
		Address:      u.Address,
		City:         u.City,
		State:        u.State,
		PostalCode:   u.PostalCode,
		Phone:        u.Phone,
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func fromUserRecord(r userRecord) entities.User {
	return entities.User{
		ID:           r.ID,
		LegalName:    r.LegalName,
		TaxID:        r.TaxID,
		StateTaxID:   r.StateTaxID,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		PostalCode:   r.PostalCode,
		Phone:        r.Phone,
		Email:        strings.ToLower(r.Email),
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(validateQuote, entities.Quote{})
	return v
}

// validateQuote rejects records that cannot be operated on. Unknown statuses pass:
// the lifecycle rules treat them as deletable. Owner emails are not format checked,
// the browser build never validated them.
func validateQuote(sl validator.StructLevel) {
	q := sl.Current().Interface().(entities.Quote)

	if strings.TrimSpace(q.ID) == "" {
		sl.ReportError(q.ID, "ID", "id", "required", "")
	}
	if q.Owner.UserID == "" && q.Owner.Email == "" {
		sl.ReportError(q.Owner, "Owner", "owner", "required", "")
	}
	if q.Status == "" {
		sl.ReportError(q.Status, "Status", "status", "required", "")
	}
	for i, e := range q.History {
		if e.ID == "" || e.Action == "" {
			sl.ReportError(e, fmt.Sprintf("History[%d]", i), "history", "entry", "")
		}
	}
	for i, a := range q.Attachments {
		if a.ID == "" || !a.Kind.Valid() {
			sl.ReportError(a, fmt.Sprintf("Attachments[%d]", i), "attachments", "attachment", "")
		}
	}
}

func encodeRecords[T any](schema string, records []T) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	return json.Marshal(envelope[T]{Schema: schema, Version: recordVersion, Records: records})
}

// splitPayload tells a legacy bare array from a versioned envelope and returns the
// raw records. Anything else is an error.
func splitPayload(raw []byte, schema string) (records []json.RawMessage, legacy bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, nil
	}

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, false, fmt.Errorf("legacy %s: %w", schema, err)
		}
		return records, true, nil
	case '{':
		var env envelope[json.RawMessage]
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, false, fmt.Errorf("%s envelope: %w", schema, err)
		}
		if env.Schema != schema {
			return nil, false, fmt.Errorf("expected schema %q, got %q", schema, env.Schema)
		}
		if env.Version != recordVersion {
			return nil, false, fmt.Errorf("%w: %s v%d", errUnsupportedVersion, schema, env.Version)
		}
		return env.Records, false, nil
	default:
		return nil, false, fmt.Errorf("unrecognised %s payload", schema)
	}
}

// decoded is a collection read from the store. Rejected keeps the raw form of every
// record that failed to decode or validate.
type decoded[T any] struct {
	Records  []T
	Rejected []json.RawMessage
	Legacy   bool
}

func (g *Gateway) decodeQuotes(ctx context.Context, raw []byte) (decoded[entities.Quote], error) {
	records, legacy, err := splitPayload(raw, schemaQuotes)
	if err != nil {
		return decoded[entities.Quote]{}, err
	}

	out := decoded[entities.Quote]{Records: make([]entities.Quote, 0, len(records)), Legacy: legacy}
	for i, rec := range records {
		var q entities.Quote
		if legacy {
			q, err = g.migrateQuote(ctx, rec)
		} else {
			err = json.Unmarshal(rec, &q)
		}
		if err == nil {
			normalizeQuote(&q)
			err = g.validate.Struct(q)
		}
		if err != nil {
			g.log.Warn("dropping invalid quote record", zap.Int("index", i), zap.Bool("legacy", legacy), zap.Error(err))
			out.Rejected = append(out.Rejected, rec)
			continue
		}
		out.Records = append(out.Records, q)
	}
	return out, nil
}

func (g *Gateway) decodeUsers(raw []byte) (decoded[entities.User], error) {
	records, legacy, err := splitPayload(raw, schemaUsers)
	if err != nil {
		return decoded[entities.User]{}, err
	}

	out := decoded[entities.User]{Records: make([]entities.User, 0, len(records)), Legacy: legacy}
	for i, rec := range records {
		var r userRecord
		if legacy {
			r, err = g.migrateUser(rec)
		} else {
			err = json.Unmarshal(rec, &r)
		}
		if err == nil {
			err = g.validate.Struct(r)
		}
		if err != nil {
			g.log.Warn("dropping invalid user record", zap.Int("index", i), zap.Bool("legacy", legacy), zap.Error(err))
			out.Rejected = append(out.Rejected, rec)
			continue
		}
		out.Records = append(out.Records, fromUserRecord(r))
	}
	return out, nil
}

func normalizeQuote(q *entities.Quote) {
	if q.Items == nil {
		q.Items = []entities.LineItem{}
	}
	if q.DueDates == nil {
		q.DueDates = []time.Time{}
	}
	if q.History == nil {
		q.History = []entities.AuditEntry{}
	}
	if q.Attachments == nil {
		q.Attachments = []entities.Attachment{}
	}
	q.Owner.Email = strings.ToLower(strings.TrimSpace(q.Owner.Email))
}
