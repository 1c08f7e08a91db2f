package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/model"
	"quotebuilder/services"
	"quotebuilder/store"
)

type boqResponse struct {
	Quote model.Quote        `json:"quote"`
	BOQ   *model.BOQDocument `json:"boq"`
}

// HandleQuoteBOQ assembles and totals the bill of quantities of a quote.
// Route: GET /api/quotes/{id}/boq
func HandleQuoteBOQ(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		q, ok, err := ownedQuote(e, quotes, logger, "view_boq")
		if !ok {
			return err
		}

		prepared, doc, err := services.Prepare(q)
		if err != nil {
			return storeError(e, logger, "view_boq", err)
		}
		return e.JSON(http.StatusOK, boqResponse{Quote: prepared, BOQ: doc})
	}
}
