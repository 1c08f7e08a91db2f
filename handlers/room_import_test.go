package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"quotebuilder/services"
	"quotebuilder/testhelpers"
)

func TestHandleRoomImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "Room Name,Length,Width,Height\nKitchen,4,3,2.8\nLounge,six,4,3\n"

	req := newUploadRequest(t, "/api/rooms/import", "rooms.csv", []byte(csv))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRoomImport(discardLogger())(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got services.RoomImportResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got.TotalRows != 2 || got.ValidRows != 1 || got.ErrorRows != 1 {
		t.Errorf("counts = total %d valid %d errors %d", got.TotalRows, got.ValidRows, got.ErrorRows)
	}
	if len(got.Rooms) != 2 || got.Rooms[0].Name != "Kitchen" {
		t.Errorf("rooms = %+v", got.Rooms)
	}
	if len(got.Errors) != 1 || got.Errors[0].Field != "Length" {
		t.Errorf("errors = %+v", got.Errors)
	}
}

func TestHandleRoomImport_Rejects(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name     string
		fileName string
		body     string
	}{
		{"unsupported format", "rooms.txt", "Room Name\nKitchen\n"},
		{"missing name column", "rooms.csv", "Length,Width\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newUploadRequest(t, "/api/rooms/import", tt.fileName, []byte(tt.body))
			rec := httptest.NewRecorder()
			e := newTestRequestEvent(app, req, rec)

			if err := HandleRoomImport(discardLogger())(e); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHandleRoomErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	body := `[{"row":3,"field":"Length","message":"Length \"six\" is not a valid number, using 0"}]`

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/import/errors", strings.NewReader(body))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRoomErrorReport(discardLogger())(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "Room_Schedule_Errors_") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("response is not a workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("expected header and one error row, got %d rows", len(rows))
	}
}

func TestHandleRoomErrorReport_InvalidBody(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms/import/errors", strings.NewReader("nope"))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRoomErrorReport(discardLogger())(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleRoomTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/template", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := HandleRoomTemplate(discardLogger())(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Room_Schedule_Template.xlsx") {
		t.Errorf("unexpected content disposition %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("expected an xlsx body")
	}
}
