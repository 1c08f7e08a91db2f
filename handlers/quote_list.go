package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/model"
	"quotebuilder/store"
)

// HandleQuoteList returns the caller's quotes, newest first.
// Route: GET /api/quotes
func HandleQuoteList(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := GetSession(e.Request)
		if s == nil {
			return jsonError(e, http.StatusUnauthorized, "Authentication required")
		}

		list, err := quotes.List(e.Request.Context(), s)
		if err != nil {
			return storeError(e, logger, "list_quotes", err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

// ownedQuote loads the quote named by the {id} path value and checks the
// caller may see it. When ok is false the response has been written and
// err is what the handler should return.
func ownedQuote(e *core.RequestEvent, quotes *store.QuoteStore, logger *slog.Logger, op string) (q model.Quote, ok bool, err error) {
	s := GetSession(e.Request)
	if s == nil {
		return q, false, jsonError(e, http.StatusUnauthorized, "Authentication required")
	}
	id := e.Request.PathValue("id")
	if id == "" {
		return q, false, jsonError(e, http.StatusBadRequest, "Missing quote ID")
	}

	q, err = quotes.Get(e.Request.Context(), id)
	if err != nil {
		return q, false, storeError(e, logger, op, err)
	}
	if !store.CanAccess(s, q) {
		return q, false, storeError(e, logger, op, store.ErrForbidden)
	}
	return q, true, nil
}
