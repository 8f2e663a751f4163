package main

import "net/http"

func (app *application) listSuspects(w http.ResponseWriter, r *http.Request) {
	suspects, err := app.content.ListSuspects(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, suspects)
}

func (app *application) getSuspect(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "id", "Invalid suspect ID")
	if !ok {
		return
	}
	suspect, err := app.content.GetSuspect(r.Context(), id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if suspect == nil {
		app.clientError(w, r, http.StatusNotFound, "Suspect not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, suspect)
}
