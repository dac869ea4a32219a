package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"portal_orcamentos/internal/domain/audit"
	"portal_orcamentos/internal/domain/entities"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// The browser build of the portal kept both collections as bare JSON arrays with
// Portuguese keys, inline data URLs for attachments and plaintext passwords.
// These types only exist to read that shape once.

// looseNumber accepts numbers, numeric strings (comma or dot decimals) and null.
// Anything unparseable reads as zero.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	*n = looseNumber(f)
	return nil
}

type legacyItem struct {
	ID          string      `json:"id"`
	Code        string      `json:"codigo"`
	Name        string      `json:"nome"`
	Category    string      `json:"categoria"`
	Color       string      `json:"cor"`
	DefaultUnit string      `json:"unidadePadrao"`
	Description string      `json:"descricao"`
	Unit        string      `json:"unidade"`
	Quantity    looseNumber `json:"quantidade"`
	UnitPrice   looseNumber `json:"preco"`
}

type legacyPix struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Type    string `json:"tipo"`
	Key     string `json:"chave"`
	Bank    string `json:"banco"`
	Holder  string `json:"titular"`
	Branch  string `json:"agencia"`
	Account string `json:"conta"`
}

type legacyEntry struct {
	ID        string      `json:"id"`
	Timestamp string      `json:"ts"`
	UserID    *string     `json:"userId"`
	UserName  *string     `json:"userName"`
	Action    string      `json:"action"`
	From      *string     `json:"from"`
	To        string      `json:"to"`
	Reason    string      `json:"motivo"`
	Count     looseNumber `json:"qtd"`
}

type legacyAttachment struct {
	ID      string `json:"id"`
	Name    string `json:"nome"`
	Type    string `json:"tipo"`
	URL     string `json:"url"`
	DataURL string `json:"dataUrl"`
}

type legacyQuote struct {
	ID            string             `json:"id"`
	OwnerID       string             `json:"clienteId"`
	OwnerEmail    string             `json:"clienteEmail"`
	OwnerName     string             `json:"clienteNome"`
	Items         []legacyItem       `json:"itens"`
	DiscountPct   looseNumber        `json:"descontoPct"`
	PaymentMethod string             `json:"formaPagamento"`
	Pix           *legacyPix         `json:"pagamentoPix"`
	Term          string             `json:"prazo"`
	DueDates      []string           `json:"dueDates"`
	Status        string             `json:"status"`
	CreatedAt     string             `json:"criadoEm"`
	History       []legacyEntry      `json:"history"`
	Attachments   []legacyAttachment `json:"anexos"`
	CancelReason  string             `json:"cancelReason"`
}

type legacyUser struct {
	ID         string `json:"id"`
	LegalName  string `json:"razaoSocial"`
	TaxID      string `json:"cnpj"`
	StateTaxID string `json:"ie"`
	Address    string `json:"endereco"`
	City       string `json:"cidade"`
	State      string `json:"uf"`
	PostalCode string `json:"cep"`
	Phone      string `json:"telefone"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"senha"`
}

var legacyActions = map[string]string{
	"criou":                   audit.ActionCreated,
	"alterou status":          audit.ActionChangedStatus,
	"cancelou":                audit.ActionCancelled,
	"marcou para atualização": audit.ActionMarkedForUpdate,
	"confirmou":               audit.ActionConfirmed,
	"anexou fotos":            audit.ActionAttachedPhotos,
	"anexou documentos":       audit.ActionAttachedDocument,
}

var errBadDataURL = errors.New("malformed data url")

func (g *Gateway) migrateQuote(ctx context.Context, raw json.RawMessage) (entities.Quote, error) {
	var lq legacyQuote
	if err := json.Unmarshal(raw, &lq); err != nil {
		return entities.Quote{}, err
	}

	q := entities.Quote{
		ID: lq.ID,
		Owner: entities.OwnerRef{
			UserID: lq.OwnerID,
			Email:  lq.OwnerEmail,
			Name:   lq.OwnerName,
		},
		Items:            make([]entities.LineItem, 0, len(lq.Items)),
		DiscountPercent:  float64(lq.DiscountPct),
		PaymentMethod:    entities.PaymentMethod(lq.PaymentMethod),
		PaymentTermLabel: lq.Term,
		DueDates:         make([]time.Time, 0, len(lq.DueDates)),
		Status:           entities.QuoteStatus(lq.Status),
		History:          make([]entities.AuditEntry, 0, len(lq.History)),
		Attachments:      make([]entities.Attachment, 0, len(lq.Attachments)),
		CancelReason:     lq.CancelReason,
		CreatedAt:        parseLegacyTime(lq.CreatedAt),
		Version:          1,
	}

	for _, it := range lq.Items {
		unit := it.Unit
		if unit == "" {
			unit = it.DefaultUnit
		}
		q.Items = append(q.Items, entities.LineItem{
			ProductID:   it.ID,
			Code:        it.Code,
			Name:        it.Name,
			Unit:        unit,
			Quantity:    float64(it.Quantity),
			UnitPrice:   float64(it.UnitPrice),
			Category:    it.Category,
			Color:       it.Color,
			Description: it.Description,
		})
	}

	if lq.Pix != nil {
		q.Pix = &entities.PixKey{
			ID:      lq.Pix.ID,
			Label:   lq.Pix.Label,
			Type:    lq.Pix.Type,
			Key:     lq.Pix.Key,
			Bank:    lq.Pix.Bank,
			Holder:  lq.Pix.Holder,
			Branch:  lq.Pix.Branch,
			Account: lq.Pix.Account,
		}
	}

	for _, d := range lq.DueDates {
		if t := parseLegacyTime(d); !t.IsZero() {
			q.DueDates = append(q.DueDates, t)
		}
	}

	for _, e := range lq.History {
		q.History = append(q.History, migrateEntry(e))
	}

	for _, a := range lq.Attachments {
		att, ok := g.migrateAttachment(ctx, q.ID, a, q.CreatedAt)
		if ok {
			q.Attachments = append(q.Attachments, att)
		}
	}
	return q, nil
}

func migrateEntry(e legacyEntry) entities.AuditEntry {
	action, ok := legacyActions[e.Action]
	if !ok {
		action = e.Action
	}
	entry := entities.AuditEntry{
		ID:        e.ID,
		Timestamp: parseLegacyTime(e.Timestamp),
		ActorID:   nonEmpty(e.UserID),
		ActorName: nonEmpty(e.UserName),
		Action:    action,
		ToStatus:  entities.QuoteStatus(e.To),
	}
	if e.From != nil {
		from := entities.QuoteStatus(*e.From)
		entry.FromStatus = &from
	}

	extra := map[string]any{}
	if r := strings.TrimSpace(e.Reason); r != "" {
		extra[audit.ExtraReason] = r
	}
	if e.Count > 0 {
		extra[audit.ExtraCount] = int(e.Count)
	}
	if len(extra) > 0 {
		entry.Extra = extra
	}
	return entry
}

// migrateAttachment moves an inline data URL into the blob store. Attachments that
// only carried an object URL lost their payload with the browser session and are
// dropped.
func (g *Gateway) migrateAttachment(ctx context.Context, quoteID string, a legacyAttachment, createdAt time.Time) (entities.Attachment, bool) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	mediaType, data, err := decodeDataURL(a.DataURL)
	if err != nil {
		g.log.Warn("dropping legacy attachment without payload",
			zap.String("quote_id", quoteID), zap.String("attachment_id", a.ID), zap.Error(err))
		return entities.Attachment{}, false
	}
	if a.Type != "" {
		mediaType = a.Type
	}

	kind := entities.AttachmentDocument
	if strings.HasPrefix(mediaType, "image/") {
		kind = entities.AttachmentPhoto
	}

	key := g.keys.AttachmentPrefix + quoteID + ":" + a.ID
	if err := g.store.Set(ctx, key, data); err != nil {
		g.fail("migrate_attachment", err)
		return entities.Attachment{}, false
	}
	return entities.Attachment{
		ID:        a.ID,
		Name:      a.Name,
		MediaType: mediaType,
		Kind:      kind,
		Size:      int64(len(data)),
		BlobKey:   key,
		CreatedAt: createdAt,
	}, true
}

func (g *Gateway) migrateUser(raw json.RawMessage) (userRecord, error) {
	var lu legacyUser
	if err := json.Unmarshal(raw, &lu); err != nil {
		return userRecord{}, err
	}
	if lu.ID == "" {
		lu.ID = uuid.NewString()
	}

	r := userRecord{
		ID:         lu.ID,
		LegalName:  lu.LegalName,
		TaxID:      lu.TaxID,
		StateTaxID: lu.StateTaxID,
		Address:    lu.Address,
		City:       lu.City,
		State:      strings.ToUpper(lu.State),
		PostalCode: lu.PostalCode,
		Phone:      lu.Phone,
		Email:      strings.ToLower(strings.TrimSpace(lu.Email)),
		Username:   lu.Username,
	}
	if lu.Password != "" && g.hasher != nil {
		hash, err := g.hasher.Hash(lu.Password)
		if err != nil {
			return userRecord{}, err
		}
		r.PasswordHash = hash
	}
	return r, nil
}

// decodeDataURL parses "data:<media type>;base64,<payload>".
func decodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, errBadDataURL
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errBadDataURL
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return "", nil, errBadDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return mediaType, data, nil
}

func parseLegacyTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
