package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/model"
	"quotebuilder/planclient"
	"quotebuilder/store"
)

// PlanAnalyzer reads rooms out of an uploaded plan.
type PlanAnalyzer interface {
	Analyze(ctx context.Context, fileURL string) (*planclient.Analysis, error)
}

type planUploadResponse struct {
	FileURL  string               `json:"file_url"`
	Analysis *planclient.Analysis `json:"analysis"`
	Rooms    []model.Room         `json:"rooms"`
}

// HandlePlanUpload stores an uploaded plan and has it analyzed. When the
// analysis fails the stored file is removed again.
// Route: POST /api/plans
func HandlePlanUpload(plans *store.PlanStorage, analyzer PlanAnalyzer, defaultHeight float64, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return jsonError(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Could not read uploaded file")
		}

		ctx := e.Request.Context()
		fileURL, err := plans.Upload(ctx, header.Filename, data)
		if errors.Is(err, store.ErrUnsupportedPlan) {
			return jsonError(e, http.StatusBadRequest, "Unsupported file type")
		}
		if err != nil {
			logger.Error("plan_upload: store failed", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to upload plan file")
		}

		analysis, err := analyzer.Analyze(ctx, fileURL)
		if err != nil {
			logger.Error("plan_upload: analysis failed", "file_url", fileURL, "error", err)
			if rerr := plans.Remove(context.WithoutCancel(ctx), fileURL); rerr != nil {
				logger.Warn("plan_upload: cleanup failed", "file_url", fileURL, "error", rerr)
			}
			return jsonError(e, http.StatusBadGateway, "Failed to analyze plan. Please try again.")
		}

		return e.JSON(http.StatusOK, planUploadResponse{
			FileURL:  fileURL,
			Analysis: analysis,
			Rooms:    analysis.Rooms(defaultHeight),
		})
	}
}
