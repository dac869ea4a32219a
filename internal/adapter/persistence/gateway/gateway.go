// Package gateway is the persistence boundary of the portal. It stores the quote
// and user collections as versioned records in a key-value store, validates what it
// reads, migrates the legacy browser-storage shape and broadcasts quote changes.
//
// Quote and user persistence is best-effort: read failures load as empty and write
// failures are dropped. Both are logged and counted, never returned.
//
// Records that fail validation during a legacy migration are kept under the
// collection key plus ":rejected" instead of being erased by the write-back.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"portal_orcamentos/internal/adapter/persistence/kvstore"
	"portal_orcamentos/internal/domain/entities"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Keys names where each collection lives in the store.
type Keys struct {
	Quotes           string
	Users            string
	CartPrefix       string
	AttachmentPrefix string
}

// FailureRecorder counts swallowed persistence failures.
type FailureRecorder interface {
	ObservePersistenceFailure(operation string)
}

type Gateway struct {
	store    kvstore.Store
	keys     Keys
	hasher   interfaces.IPasswordHasher
	failures FailureRecorder
	validate *validator.Validate
	log      *zap.Logger

	// writeMu orders collection writes in this process.
	writeMu sync.Mutex

	subMu   sync.RWMutex
	subs    map[uint64]func()
	nextSub uint64
}

var (
	_ interfaces.IQuoteRepository = (*Gateway)(nil)
	_ interfaces.IUserRepository  = (*Gateway)(nil)
	_ interfaces.ICartRepository  = (*Gateway)(nil)
	_ interfaces.IBlobStore       = (*Gateway)(nil)
)

func New(store kvstore.Store, keys Keys, hasher interfaces.IPasswordHasher, failures FailureRecorder, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		store:    store,
		keys:     keys,
		hasher:   hasher,
		failures: failures,
		validate: newValidator(),
		log:      log.Named("persistence.gateway"),
		subs:     map[uint64]func(){},
	}
}

func (g *Gateway) LoadQuotes(ctx context.Context) []entities.Quote {
	raw, ok, err := g.store.Get(ctx, g.keys.Quotes)
	if err != nil {
		g.fail("load_quotes", err)
		return []entities.Quote{}
	}
	if !ok {
		return []entities.Quote{}
	}

	d, err := g.decodeQuotes(ctx, raw)
	if err != nil {
		g.fail("decode_quotes", err)
		return []entities.Quote{}
	}
	if d.Legacy {
		g.writeBack(ctx, schemaQuotes, g.keys.Quotes, raw, d.Rejected, func() ([]byte, error) {
			return encodeRecords(schemaQuotes, d.Records)
		})
	}
	return d.Records
}

// SaveQuotes replaces the collection and notifies subscribers once the write lands.
func (g *Gateway) SaveQuotes(ctx context.Context, quotes []entities.Quote) {
	g.writeMu.Lock()
	ok := g.writeQuotes(ctx, quotes)
	g.writeMu.Unlock()
	if ok {
		g.publish()
	}
}

func (g *Gateway) writeQuotes(ctx context.Context, quotes []entities.Quote) bool {
	raw, err := encodeRecords(schemaQuotes, quotes)
	if err != nil {
		g.fail("encode_quotes", err)
		return false
	}
	if err := g.store.Set(ctx, g.keys.Quotes, raw); err != nil {
		g.fail("save_quotes", err)
		return false
	}
	return true
}

func (g *Gateway) LoadUsers(ctx context.Context) []entities.User {
	raw, ok, err := g.store.Get(ctx, g.keys.Users)
	if err != nil {
		g.fail("load_users", err)
		return []entities.User{}
	}
	if !ok {
		return []entities.User{}
	}

	d, err := g.decodeUsers(raw)
	if err != nil {
		g.fail("decode_users", err)
		return []entities.User{}
	}
	if d.Legacy {
		g.writeBack(ctx, schemaUsers, g.keys.Users, raw, d.Rejected, func() ([]byte, error) {
			return encodeRecords(schemaUsers, toUserRecords(d.Records))
		})
	}
	return d.Records
}

func (g *Gateway) SaveUsers(ctx context.Context, users []entities.User) {
	raw, err := encodeRecords(schemaUsers, toUserRecords(users))
	if err != nil {
		g.fail("encode_users", err)
		return
	}

	g.writeMu.Lock()
	defer g.writeMu.Unlock()
	if err := g.store.Set(ctx, g.keys.Users, raw); err != nil {
		g.fail("save_users", err)
	}
}

func toUserRecords(users []entities.User) []userRecord {
	records := make([]userRecord, len(users))
	for i, u := range users {
		records[i] = toUserRecord(u)
	}
	return records
}

// Migrate loads both collections once so legacy payloads are rewritten before any
// request reads them.
func (g *Gateway) Migrate(ctx context.Context) {
	quotes := g.LoadQuotes(ctx)
	users := g.LoadUsers(ctx)
	g.log.Info("collections ready", zap.Int("quotes", len(quotes)), zap.Int("users", len(users)))
}

// writeBack replaces a legacy payload with its migrated envelope. The write only
// happens while the stored bytes still equal the decoded legacy payload, so a save
// that landed after the read wins. Rejected records are moved aside first; if that
// fails the legacy payload stays as it is.
func (g *Gateway) writeBack(ctx context.Context, schema, key string, legacy []byte, rejected []json.RawMessage, encode func() ([]byte, error)) bool {
	g.writeMu.Lock()
	defer g.writeMu.Unlock()

	current, ok, err := g.store.Get(ctx, key)
	if err != nil {
		g.fail("migrate_"+schema, err)
		return false
	}
	if !ok || !bytes.Equal(current, legacy) {
		g.log.Info("legacy collection already replaced, skipping write-back", zap.String("schema", schema))
		return false
	}

	if len(rejected) > 0 {
		if err := g.keepRejected(ctx, rejectedKey(key), rejected); err != nil {
			g.fail("quarantine_"+schema, err)
			return false
		}
		g.log.Warn("kept rejected legacy records", zap.String("schema", schema), zap.Int("count", len(rejected)))
	}

	raw, err := encode()
	if err != nil {
		g.fail("encode_"+schema, err)
		return false
	}
	if err := g.store.Set(ctx, key, raw); err != nil {
		g.fail("migrate_"+schema, err)
		return false
	}
	g.log.Info("legacy collection migrated", zap.String("schema", schema))
	return true
}

// keepRejected appends records to the JSON array stored at key.
func (g *Gateway) keepRejected(ctx context.Context, key string, records []json.RawMessage) error {
	var kept []json.RawMessage
	raw, ok, err := g.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if ok {
		if err := json.Unmarshal(raw, &kept); err != nil {
			return fmt.Errorf("rejected records: %w", err)
		}
	}
	out, err := json.Marshal(append(kept, records...))
	if err != nil {
		return err
	}
	return g.store.Set(ctx, key, out)
}

func rejectedKey(key string) string {
	return key + ":rejected"
}

// LoadCart returns the user's cart. A missing or unreadable cart loads as empty.
func (g *Gateway) LoadCart(ctx context.Context, userID string) (entities.Cart, error) {
	raw, ok, err := g.store.Get(ctx, g.keys.CartPrefix+userID)
	if err != nil {
		return entities.Cart{}, fmt.Errorf("load cart: %w", err)
	}
	cart := entities.Cart{UserID: userID, Items: []entities.LineItem{}}
	if !ok {
		return cart, nil
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		g.log.Warn("discarding unreadable cart", zap.String("user_id", userID), zap.Error(err))
		return entities.Cart{UserID: userID, Items: []entities.LineItem{}}, nil
	}
	cart.UserID = userID
	return cart, nil
}

func (g *Gateway) SaveCart(ctx context.Context, cart entities.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	if err := g.store.Set(ctx, g.keys.CartPrefix+cart.UserID, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (g *Gateway) DeleteCart(ctx context.Context, userID string) error {
	return g.store.Delete(ctx, g.keys.CartPrefix+userID)
}

func (g *Gateway) PutBlob(ctx context.Context, key string, data []byte) error {
	err := g.store.Set(ctx, key, data)
	if errors.Is(err, kvstore.ErrValueTooLarge) {
		return fmt.Errorf("%w: %w", interfaces.ErrBlobTooLarge, err)
	}
	return err
}

func (g *Gateway) GetBlob(ctx context.Context, key string) ([]byte, bool, error) {
	return g.store.Get(ctx, key)
}

func (g *Gateway) DeleteBlob(ctx context.Context, key string) error {
	return g.store.Delete(ctx, key)
}

// Subscribe registers fn to run after every quote save. Calling the returned
// function more than once is harmless.
func (g *Gateway) Subscribe(fn func()) func() {
	g.subMu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.subMu.Lock()
			delete(g.subs, id)
			g.subMu.Unlock()
		})
	}
}

func (g *Gateway) publish() {
	g.subMu.RLock()
	fns := make([]func(), 0, len(g.subs))
	for _, fn := range g.subs {
		fns = append(fns, fn)
	}
	g.subMu.RUnlock()

	for _, fn := range fns {
		fn()
	}
}

func (g *Gateway) fail(operation string, err error) {
	g.log.Error("persistence failure", zap.String("operation", operation), zap.Error(err))
	if g.failures != nil {
		g.failures.ObservePersistenceFailure(operation)
	}
}
