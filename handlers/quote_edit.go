package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/store"
)

// HandleQuoteUpdate merges the posted fields into a quote. An unknown id
// is created with that id.
// Route: PATCH /api/quotes/{id}
func HandleQuoteUpdate(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		s := GetSession(e.Request)
		if s == nil {
			return jsonError(e, http.StatusUnauthorized, "Authentication required")
		}
		id := e.Request.PathValue("id")
		if id == "" {
			return jsonError(e, http.StatusBadRequest, "Missing quote ID")
		}

		var patch store.QuotePatch
		body := http.MaxBytesReader(e.Response, e.Request.Body, maxQuoteBody)
		if err := json.NewDecoder(body).Decode(&patch); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid quote patch")
		}

		updated, err := quotes.Update(e.Request.Context(), s, id, patch)
		if err != nil {
			return storeError(e, logger, "update_quote", err)
		}
		return e.JSON(http.StatusOK, updated)
	}
}
