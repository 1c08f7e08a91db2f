package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"quotebuilder/store"
	"quotebuilder/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "My Quote File", "My-Quote-File"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"quotes dropped", `say "hi"`, "say-hi"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "simple", "simple"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHandleQuoteExportExcel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quotes := store.NewQuoteStore(app, discardLogger())
	q := createOwnedQuote(t, quotes, "owner1")

	handler := HandleQuoteExportExcel(quotes, discardLogger())

	tests := []struct {
		audience string
		prefix   string
	}{
		{"", "Client_Quote_Demo_Bungalow"},
		{"client", "Client_Quote_Demo_Bungalow"},
		{"contractor", "Contractor_Quote_Demo_Bungalow"},
	}
	for _, tt := range tests {
		t.Run("audience="+tt.audience, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+q.ID+"/export/excel?audience="+tt.audience, nil)
			req.SetPathValue("id", q.ID)
			req = withSession(req, "owner1", false)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := handler(e); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
				t.Errorf("unexpected content type %q", ct)
			}
			cd := rec.Header().Get("Content-Disposition")
			if !strings.Contains(cd, `filename="`+tt.prefix) || !strings.HasSuffix(cd, `.xlsx"`) {
				t.Errorf("unexpected content disposition %q", cd)
			}
			if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
				t.Error("expected a zip-based xlsx body")
			}
		})
	}
}

func TestHandleQuoteExportPDF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quotes := store.NewQuoteStore(app, discardLogger())
	q := createOwnedQuote(t, quotes, "owner1")

	handler := HandleQuoteExportPDF(quotes, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+q.ID+"/export/pdf?audience=contractor", nil)
	req.SetPathValue("id", q.ID)
	req = withSession(req, "owner1", false)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF body")
	}
}

func TestHandleQuoteExport_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	quotes := store.NewQuoteStore(app, discardLogger())
	q := createOwnedQuote(t, quotes, "owner1")

	handler := HandleQuoteExportExcel(quotes, discardLogger())

	tests := []struct {
		name     string
		id       string
		owner    string
		audience string
		want     int
	}{
		{"unknown audience", q.ID, "owner1", "admin", http.StatusBadRequest},
		{"foreign quote", q.ID, "owner2", "client", http.StatusForbidden},
		{"missing quote", "nonexistent", "owner1", "client", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/quotes/"+tt.id+"/export/excel?audience="+tt.audience, nil)
			req.SetPathValue("id", tt.id)
			req = withSession(req, tt.owner, false)
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := handler(e); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}
