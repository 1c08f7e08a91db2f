package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/store"
)

// HandleQuoteDelete removes a quote the caller owns.
// Route: DELETE /api/quotes/{id}
func HandleQuoteDelete(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, ok, err := ownedQuote(e, quotes, logger, "delete_quote")
		if !ok {
			return err
		}

		if err := quotes.Delete(e.Request.Context(), q.ID); err != nil {
			return storeError(e, logger, "delete_quote", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
