// Package store persists quotes and uploaded plans in PocketBase.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/model"
)

var (
	// ErrQuoteNotFound is returned by Get and Delete for an unknown id.
	ErrQuoteNotFound = errors.New("quote not found")
	// ErrForbidden is returned when a non-superuser touches another owner's quote.
	ErrForbidden = errors.New("quote belongs to another owner")
)

// Viewer identifies who a store call is made on behalf of.
type Viewer interface {
	OwnerID() string
	IsSuperuser() bool
}

// QuotePatch is a partial quote document. Keys present replace the stored
// value; keys absent keep it. Unknown keys become extensions.
type QuotePatch map[string]json.RawMessage

// immutableKeys are never taken from a patch.
var immutableKeys = []string{"id", "user_id", "created_at", "updated_at"}

// QuoteStore reads and writes the quotes collection.
type QuoteStore struct {
	app    core.App
	logger *slog.Logger
}

func NewQuoteStore(app core.App, logger *slog.Logger) *QuoteStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuoteStore{app: app, logger: logger}
}

// Create inserts q for owner. Totals are re-derived before saving.
func (s *QuoteStore) Create(ctx context.Context, owner Viewer, q model.Quote) (model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}
	col, err := s.collection()
	if err != nil {
		return model.Quote{}, err
	}

	if q.OwnerID == "" || !owner.IsSuperuser() {
		q.OwnerID = owner.OwnerID()
	}
	record := core.NewRecord(col)
	if q.ID != "" {
		record.Id = q.ID
	}
	out, err := s.save(record, q)
	if err != nil {
		return model.Quote{}, fmt.Errorf("create quote: %w", err)
	}
	s.logger.Info("quote_store: created quote", "id", out.ID, "owner", out.OwnerID, "total", out.TotalAmount)
	return out, nil
}

// Update applies patch to quote id. A missing id is inserted with that id
// and owned by owner.
func (s *QuoteStore) Update(ctx context.Context, owner Viewer, id string, patch QuotePatch) (model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}
	col, err := s.collection()
	if err != nil {
		return model.Quote{}, err
	}

	var (
		q      model.Quote
		record *core.Record
	)
	existing, err := s.app.FindRecordById(col, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.Warn("quote_store: update target missing, inserting", "id", id)
		record = core.NewRecord(col)
		record.Id = id
		q = model.Quote{OwnerID: owner.OwnerID()}
	case err != nil:
		return model.Quote{}, fmt.Errorf("update quote %s: %w", id, err)
	default:
		record = existing
		q, err = collections.QuoteFromRecord(existing)
		if err != nil {
			return model.Quote{}, err
		}
		if !CanAccess(owner, q) {
			return model.Quote{}, ErrForbidden
		}
	}

	q, err = patch.Apply(q)
	if err != nil {
		return model.Quote{}, fmt.Errorf("update quote %s: %w", id, err)
	}
	out, err := s.save(record, q)
	if err != nil {
		return model.Quote{}, fmt.Errorf("update quote %s: %w", id, err)
	}
	s.logger.Info("quote_store: updated quote", "id", out.ID, "total", out.TotalAmount)
	return out, nil
}

// Delete removes quote id.
func (s *QuoteStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record, err := s.find(id)
	if err != nil {
		return err
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("delete quote %s: %w", id, err)
	}
	s.logger.Info("quote_store: deleted quote", "id", id)
	return nil
}

// Get loads quote id.
func (s *QuoteStore) Get(ctx context.Context, id string) (model.Quote, error) {
	if err := ctx.Err(); err != nil {
		return model.Quote{}, err
	}
	record, err := s.find(id)
	if err != nil {
		return model.Quote{}, err
	}
	return collections.QuoteFromRecord(record)
}

// List returns the quotes visible to viewer, newest first. Superusers see
// every quote.
func (s *QuoteStore) List(ctx context.Context, viewer Viewer) ([]model.Quote, error) {
	query := s.app.RecordQuery(collections.QuotesCollection).
		OrderBy("created DESC").
		WithContext(ctx)
	if !viewer.IsSuperuser() {
		query = query.AndWhere(dbx.NewExp(collections.FieldOwner+" = {:owner}", dbx.Params{"owner": viewer.OwnerID()}))
	}

	records := []*core.Record{}
	if err := query.All(&records); err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}

	quotes := make([]model.Quote, 0, len(records))
	for _, r := range records {
		q, err := collections.QuoteFromRecord(r)
		if err != nil {
			s.logger.Error("quote_store: skipping unreadable quote", "id", r.Id, "error", err)
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// CanAccess reports whether viewer may read or change q.
func CanAccess(viewer Viewer, q model.Quote) bool {
	return viewer.IsSuperuser() || q.OwnerID == viewer.OwnerID()
}

func (s *QuoteStore) collection() (*core.Collection, error) {
	col, err := s.app.FindCollectionByNameOrId(collections.QuotesCollection)
	if err != nil {
		return nil, fmt.Errorf("quote_store: quotes collection: %w", err)
	}
	return col, nil
}

func (s *QuoteStore) find(id string) (*core.Record, error) {
	record, err := s.app.FindRecordById(collections.QuotesCollection, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find quote %s: %w", id, err)
	}
	return record, nil
}

func (s *QuoteStore) save(record *core.Record, q model.Quote) (model.Quote, error) {
	q.Recompute()
	if err := collections.ApplyQuote(record, q); err != nil {
		return model.Quote{}, err
	}
	if err := s.app.Save(record); err != nil {
		return model.Quote{}, err
	}
	return collections.QuoteFromRecord(record)
}

// Apply merges p over q and returns the result. q is not modified.
func (p QuotePatch) Apply(q model.Quote) (model.Quote, error) {
	base, err := json.Marshal(q)
	if err != nil {
		return model.Quote{}, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return model.Quote{}, err
	}
	for k, v := range p {
		fields[k] = v
	}
	for _, k := range immutableKeys {
		delete(fields, k)
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return model.Quote{}, err
	}
	var out model.Quote
	if err := json.Unmarshal(merged, &out); err != nil {
		return model.Quote{}, fmt.Errorf("invalid quote patch: %w", err)
	}
	out.ID = q.ID
	out.OwnerID = q.OwnerID
	out.CreatedAt = q.CreatedAt
	out.UpdatedAt = q.UpdatedAt
	return out, nil
}
