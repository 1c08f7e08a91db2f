package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"quotebuilder/services"
)

// HandleRoomImport parses an uploaded room schedule and returns the rooms
// with any row-level problems.
// Route: POST /api/rooms/import
func HandleRoomImport(logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxUploadSize); err != nil {
			return jsonError(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return jsonError(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ParseRoomSchedule(file, header.Filename)
		if err != nil {
			logger.Warn("room_import: rejected file", "file", header.Filename, "error", err)
			return jsonError(e, http.StatusBadRequest, err.Error())
		}
		return e.JSON(http.StatusOK, result)
	}
}

// HandleRoomErrorReport downloads posted row errors as an Excel file.
// Route: POST /api/rooms/import/errors
func HandleRoomErrorReport(logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.RowError
		if err := json.NewDecoder(e.Request.Body).Decode(&rowErrors); err != nil {
			return jsonError(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			logger.Error("error_report: failed to generate", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Room_Schedule_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleRoomTemplate downloads a blank room schedule.
// Route: GET /api/rooms/template
func HandleRoomTemplate(logger *slog.Logger) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateRoomTemplate()
		if err != nil {
			logger.Error("room_template: failed to generate", "error", err)
			return jsonError(e, http.StatusInternalServerError, "Failed to generate template")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="Room_Schedule_Template.xlsx"`)
		e.Response.Write(xlsxBytes)
		return nil
	}
}
