package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/collections"
	"quotebuilder/model"
	"quotebuilder/session"
	"quotebuilder/store"
)

// newTestRequestEvent creates a RequestEvent suitable for handler tests.
func newTestRequestEvent(app *pocketbase.PocketBase, req *http.Request, rec *httptest.ResponseRecorder) *core.RequestEvent {
	e := &core.RequestEvent{}
	e.App = app
	e.Request = req
	e.Response = rec
	return e
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withSession attaches a non-refreshing session for owner to req.
func withSession(req *http.Request, owner string, superuser bool) *http.Request {
	s := session.New(session.Identity{OwnerID: owner, Superuser: superuser}, 0, nil)
	return req.WithContext(context.WithValue(req.Context(), SessionKey, s))
}

// createOwnedQuote stores the demo quote for owner.
func createOwnedQuote(t *testing.T, quotes *store.QuoteStore, owner string) model.Quote {
	t.Helper()
	s := session.New(session.Identity{OwnerID: owner}, 0, nil)
	q, err := quotes.Create(context.Background(), s, collections.DemoQuote())
	if err != nil {
		t.Fatalf("failed to create quote: %v", err)
	}
	return q
}
