package main

import (
	"net/http"

	"github.com/tkoskim/breachpoint/internal/repositories"
)

func (app *application) listEvidence(w http.ResponseWriter, r *http.Request) {
	evidence, err := app.content.ListEvidence(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, evidence)
}

func (app *application) getEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "id", "Invalid evidence ID")
	if !ok {
		return
	}
	item, err := app.content.GetEvidence(r.Context(), id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if item == nil {
		app.clientError(w, r, http.StatusNotFound, "Evidence not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, item)
}

func (app *application) updateEvidence(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "id", "Invalid evidence ID")
	if !ok {
		return
	}

	var patch repositories.EvidencePatch
	if err := app.readJSON(r, &patch); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := app.content.UpdateEvidence(r.Context(), id, patch)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if item == nil {
		app.clientError(w, r, http.StatusNotFound, "Evidence not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, item)
}
