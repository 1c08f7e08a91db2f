package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/store"
)

// handleQuoteExport renders the path quote in format for the audience named
// by the ?audience= query value and sends it as an attachment.
func handleQuoteExport(quotes *store.QuoteStore, logger *slog.Logger, format services.Format, op string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		audience, err := services.ParseAudience(e.Request.URL.Query().Get("audience"))
		if err != nil {
			return jsonError(e, http.StatusBadRequest, err.Error())
		}

		q, ok, err := ownedQuote(e, quotes, logger, op)
		if !ok {
			return err
		}

		out, err := services.RenderQuote(q, audience, format, time.Now())
		if errors.Is(err, services.ErrConfidentialLeak) {
			logger.Error(op+": client export blocked", "quote", q.ID, "error", err)
			return jsonError(e, http.StatusInternalServerError, "Export blocked: client view contains contractor-only data")
		}
		if err != nil {
			return storeError(e, logger, op, err)
		}

		e.Response.Header().Set("Content-Type", format.ContentType())
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sanitizeFilename(out.FileName)))
		e.Response.Write(out.Data)
		return nil
	}
}

// HandleQuoteExportExcel returns a handler that generates and downloads an Excel file for a quote.
// Route: GET /api/quotes/{id}/export/excel?audience=client|contractor
func HandleQuoteExportExcel(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return handleQuoteExport(quotes, logger, services.FormatXLSX, "export_excel")
}

// HandleQuoteExportPDF returns a handler that generates and downloads a PDF file for a quote.
// Route: GET /api/quotes/{id}/export/pdf?audience=client|contractor
func HandleQuoteExportPDF(quotes *store.QuoteStore, logger *slog.Logger) func(*core.RequestEvent) error {
	return handleQuoteExport(quotes, logger, services.FormatPDF, "export_pdf")
}
