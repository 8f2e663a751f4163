package main

import (
	"net/http"

	"github.com/tkoskim/breachpoint/internal/repositories"
)

func (app *application) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.pathID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}
	progress, err := app.progress.GetByUser(r.Context(), userID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if progress == nil {
		app.clientError(w, r, http.StatusNotFound, "User progress not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, progress)
}

func (app *application) updateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := app.pathID(w, r, "userId", "Invalid user ID")
	if !ok {
		return
	}

	var patch repositories.ProgressPatch
	if err := app.readJSON(r, &patch); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid progress data")
		return
	}
	if patch.TimeRemaining != nil && *patch.TimeRemaining < 0 {
		app.clientError(w, r, http.StatusBadRequest, "Invalid progress data")
		return
	}

	progress, err := app.progress.Update(r.Context(), userID, patch)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if progress == nil {
		app.clientError(w, r, http.StatusNotFound, "User progress not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, progress)
}
