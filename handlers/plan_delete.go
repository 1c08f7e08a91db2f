package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/store"
)

// HandlePlanDelete removes a stored plan by URL or path.
// Route: DELETE /api/plans?url=...
func HandlePlanDelete(plans *store.PlanStorage, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		target := e.Request.URL.Query().Get("url")
		if target == "" {
			return jsonError(e, http.StatusBadRequest, "Missing plan URL")
		}

		err := plans.Remove(e.Request.Context(), target)
		if errors.Is(err, store.ErrPlanNotFound) {
			return jsonError(e, http.StatusNotFound, "Plan not found")
		}
		if err != nil {
			logger.Error("plan_delete: failed", "url", target, "error", err)
			return jsonError(e, http.StatusInternalServerError, "Could not delete the plan file")
		}
		return e.NoContent(http.StatusNoContent)
	}
}

// HandlePlanServe streams a stored plan.
// Route: GET /plans/{name}
func HandlePlanServe(plans *store.PlanStorage, logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		name := e.Request.PathValue("name")

		err := plans.Serve(e.Response, e.Request, name)
		if errors.Is(err, store.ErrPlanNotFound) {
			return jsonError(e, http.StatusNotFound, "Plan not found")
		}
		if err != nil {
			logger.Error("plan_serve: failed", "name", name, "error", err)
			return jsonError(e, http.StatusInternalServerError, "Could not read the plan file")
		}
		return nil
	}
}
