package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)

	mux.HandleFunc("GET /api/suspects", app.listSuspects)
	mux.HandleFunc("GET /api/suspects/{id}", app.getSuspect)

	mux.HandleFunc("GET /api/evidence", app.listEvidence)
	mux.HandleFunc("GET /api/evidence/{id}", app.getEvidence)
	mux.HandleFunc("PUT /api/evidence/{id}", app.updateEvidence)

	mux.HandleFunc("GET /api/decisions", app.listDecisions)
	mux.HandleFunc("GET /api/decisions/{id}", app.getDecision)
	mux.HandleFunc("POST /api/decisions/{id}/choose", app.chooseDecisionOption)

	mux.HandleFunc("GET /api/progress/{userId}", app.getProgress)
	mux.HandleFunc("PUT /api/progress/{userId}", app.updateProgress)

	mux.HandleFunc("POST /api/users", app.registerUser)

	base := alice.New(app.recoverPanic, app.logRequest, secureHeaders)

	return base.Then(mux)
}
