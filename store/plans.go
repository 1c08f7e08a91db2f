package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
)

var (
	ErrUnsupportedPlan = errors.New("unsupported plan file type")
	ErrPlanNotFound    = errors.New("plan not found")
)

// plansDir is both the storage key prefix and the public URL segment.
const plansDir = "plans"

// planTypes maps each accepted extension to the sniffed MIME types that may
// carry it. A type matches when it or one of its parents is listed.
var planTypes = map[string][]string{
	"jpg":  {"image/jpeg"},
	"jpeg": {"image/jpeg"},
	"png":  {"image/png"},
	"pdf":  {"application/pdf"},
	"dwg":  {"image/vnd.dwg"},
	"dxf":  {"image/vnd.dxf", "text/plain"},
	"rvt":  {"application/x-ole-storage"},
	"ifc":  {"text/plain"},
	"pln":  {"application/octet-stream"},
	"zip":  {"application/zip"},
	"csv":  {"text/csv", "text/plain"},
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	"txt":  {"text/plain"},
}

// PlanExtensions lists the accepted plan file extensions in a stable order.
func PlanExtensions() []string {
	exts := make([]string, 0, len(planTypes))
	for ext := range planTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// PlanStorage keeps uploaded plan files in the app filesystem (local disk
// or S3, whichever PocketBase is configured with).
type PlanStorage struct {
	app     core.App
	baseURL string
	logger  *slog.Logger
}

func NewPlanStorage(app core.App, publicBaseURL string, logger *slog.Logger) *PlanStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanStorage{app: app, baseURL: strings.TrimRight(publicBaseURL, "/"), logger: logger}
}

// Upload stores data under a fresh <uuid>.<ext> name and returns its
// public URL.
func (s *PlanStorage) Upload(ctx context.Context, originalName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ext, err := checkPlanType(originalName, data)
	if err != nil {
		return "", err
	}

	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return "", fmt.Errorf("plan_storage: open filesystem: %w", err)
	}
	defer fsys.Close()

	name := uuid.NewString() + "." + ext
	if err := fsys.Upload(data, path.Join(plansDir, name)); err != nil {
		return "", fmt.Errorf("plan_storage: upload %s: %w", originalName, err)
	}
	s.logger.Info("plan_storage: stored plan", "name", name, "original", originalName, "bytes", len(data))
	return s.URL(name), nil
}

// URL is the public address a stored plan is served from.
func (s *PlanStorage) URL(name string) string {
	return s.baseURL + "/" + plansDir + "/" + name
}

// Remove deletes a stored plan given its name, storage path or public URL.
func (s *PlanStorage) Remove(ctx context.Context, pathOrURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, err := PlanName(pathOrURL)
	if err != nil {
		return err
	}

	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return fmt.Errorf("plan_storage: open filesystem: %w", err)
	}
	defer fsys.Close()

	key := path.Join(plansDir, name)
	exists, err := fsys.Exists(key)
	if err != nil {
		return fmt.Errorf("plan_storage: stat %s: %w", name, err)
	}
	if !exists {
		return ErrPlanNotFound
	}
	if err := fsys.Delete(key); err != nil {
		return fmt.Errorf("plan_storage: delete %s: %w", name, err)
	}
	s.logger.Info("plan_storage: removed plan", "name", name)
	return nil
}

// Serve streams the stored plan name to w.
func (s *PlanStorage) Serve(w http.ResponseWriter, r *http.Request, name string) error {
	name, err := PlanName(name)
	if err != nil {
		return err
	}

	fsys, err := s.app.NewFilesystem()
	if err != nil {
		return fmt.Errorf("plan_storage: open filesystem: %w", err)
	}
	defer fsys.Close()

	key := path.Join(plansDir, name)
	exists, err := fsys.Exists(key)
	if err != nil {
		return fmt.Errorf("plan_storage: stat %s: %w", name, err)
	}
	if !exists {
		return ErrPlanNotFound
	}
	return fsys.Serve(w, r, key, name)
}

// PlanName extracts the stored file name from a name, "plans/<name>" path
// or public URL.
func PlanName(pathOrURL string) (string, error) {
	name := strings.TrimSpace(pathOrURL)
	if i := strings.LastIndex(name, "/"+plansDir+"/"); i >= 0 {
		name = name[i+len(plansDir)+2:]
	}
	name = strings.TrimPrefix(name, plansDir+"/")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if name == "" || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrPlanNotFound, pathOrURL)
	}
	return name, nil
}

func checkPlanType(originalName string, data []byte) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(originalName), "."))
	allowed, ok := planTypes[ext]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPlan, originalName)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %q is empty", ErrUnsupportedPlan, originalName)
	}

	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		for _, want := range allowed {
			if m.Is(want) {
				return ext, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q looks like %s", ErrUnsupportedPlan, originalName, detected.String())
}
