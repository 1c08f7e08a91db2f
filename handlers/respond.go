package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
	"quotebuilder/store"
)

// maxUploadSize bounds multipart bodies for plan and room schedule uploads.
const maxUploadSize = 50 << 20

// jsonError writes {"error": msg} with status.
func jsonError(e *core.RequestEvent, status int, msg string) error {
	return e.JSON(status, map[string]string{"error": msg})
}

// storeError maps quote store failures to responses.
func storeError(e *core.RequestEvent, logger *slog.Logger, op string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, store.ErrQuoteNotFound):
		return jsonError(e, http.StatusNotFound, "Quote not found")
	case errors.Is(err, store.ErrForbidden):
		return jsonError(e, http.StatusForbidden, "You do not have access to this quote")
	case errors.As(err, &verr):
		return jsonError(e, http.StatusUnprocessableEntity, verr.Error())
	}
	logger.Error(op+": failed", "error", err)
	return jsonError(e, http.StatusInternalServerError, "Failed to "+strings.ReplaceAll(op, "_", " "))
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, `"`, "")
	return s
}
