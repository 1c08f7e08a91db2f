package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/model"
	"quotebuilder/store"
)

// maxQuoteBody bounds JSON quote documents.
const maxQuoteBody = 10 << 20

// HandleQuoteCreate saves a new quote for the caller. Totals in the body
// are ignored and re-derived.
// Route: POST /api/quotes
func HandleQuoteCreate(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := GetSession(e.Request)
		if s == nil {
			return jsonError(e, http.StatusUnauthorized, "Authentication required")
		}

		var q model.Quote
		body := http.MaxBytesReader(e.Response, e.Request.Body, maxQuoteBody)
		if err := json.NewDecoder(body).Decode(&q); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid quote document")
		}

		created, err := quotes.Create(e.Request.Context(), s, q)
		if err != nil {
			return storeError(e, logger, "create_quote", err)
		}
		return e.JSON(http.StatusCreated, created)
	}
}
