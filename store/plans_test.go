package store_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"quotebuilder/store"
	"quotebuilder/testhelpers"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

const baseURL = "http://127.0.0.1:8090"

func newPlanStorage(t *testing.T) *store.PlanStorage {
	t.Helper()
	return store.NewPlanStorage(testhelpers.NewTestApp(t), baseURL+"/", nil)
}

func TestPlanStorage_UploadServeRemove(t *testing.T) {
	s := newPlanStorage(t)
	ctx := context.Background()

	url, err := s.Upload(ctx, "Floor Plan.PNG", pngData)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, baseURL+"/plans/") {
		t.Fatalf("url = %q", url)
	}

	name, err := store.PlanName(url)
	if err != nil {
		t.Fatalf("PlanName() error = %v", err)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("name = %q, want .png suffix", name)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(name, ".png")); err != nil {
		t.Errorf("stored name %q is not a uuid: %v", name, err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/plans/"+name, nil)
	if err := s.Serve(rec, req, name); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), pngData) {
		t.Error("served bytes differ from upload")
	}

	if err := s.Remove(ctx, url); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	rec = httptest.NewRecorder()
	if err := s.Serve(rec, req, name); !errors.Is(err, store.ErrPlanNotFound) {
		t.Errorf("Serve() after remove error = %v, want ErrPlanNotFound", err)
	}
	if err := s.Remove(ctx, url); !errors.Is(err, store.ErrPlanNotFound) {
		t.Errorf("second Remove() error = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanStorage_UploadRejects(t *testing.T) {
	s := newPlanStorage(t)
	ctx := context.Background()

	tests := []struct {
		name string
		file string
		data []byte
	}{
		{"unknown extension", "setup.exe", []byte("MZ\x90\x00")},
		{"no extension", "plan", pngData},
		{"content mismatch", "plan.png", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")},
		{"empty", "plan.pdf", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Upload(ctx, tt.file, tt.data); !errors.Is(err, store.ErrUnsupportedPlan) {
				t.Errorf("Upload() error = %v, want ErrUnsupportedPlan", err)
			}
		})
	}
}

func TestPlanStorage_UploadAcceptsPlanFormats(t *testing.T) {
	s := newPlanStorage(t)
	ctx := context.Background()

	tests := []struct {
		file string
		data []byte
	}{
		{"plan.pdf", []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n1 0 obj\n")},
		{"rooms.csv", []byte("Room Name,Length,Width\nKitchen,4,3\n")},
		{"notes.txt", []byte("ground floor: living, kitchen\n")},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			url, err := s.Upload(ctx, tt.file, tt.data)
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			ext := tt.file[strings.LastIndex(tt.file, "."):]
			if !strings.HasSuffix(url, ext) {
				t.Errorf("url = %q, want suffix %q", url, ext)
			}
		})
	}
}

func TestPlanName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"a.png", "a.png", false},
		{"plans/a.png", "a.png", false},
		{"https://example.com/plans/a.png", "a.png", false},
		{"https://example.com/plans/a.png?token=x", "a.png", false},
		{"", "", true},
		{"plans/../secret", "", true},
		{"https://example.com/plans/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := store.PlanName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("PlanName(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("PlanName(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("PlanName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlanExtensions(t *testing.T) {
	exts := store.PlanExtensions()
	for _, ext := range []string{"dwg", "xlsx"} {
		if !slices.Contains(exts, ext) {
			t.Errorf("PlanExtensions() missing %q", ext)
		}
	}
	if len(exts) != 13 {
		t.Errorf("len(PlanExtensions()) = %d, want 13", len(exts))
	}
}
