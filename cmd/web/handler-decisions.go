package main

import (
	"net/http"

	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/game"
	"github.com/tkoskim/breachpoint/internal/models"
)

func (app *application) listDecisions(w http.ResponseWriter, r *http.Request) {
	decisions, err := app.content.ListDecisions(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, decisions)
}

func (app *application) getDecision(w http.ResponseWriter, r *http.Request) {
	id, ok := app.pathID(w, r, "id", "Invalid decision ID")
	if !ok {
		return
	}
	decision, err := app.content.GetDecision(r.Context(), id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if decision == nil {
		app.clientError(w, r, http.StatusNotFound, "Decision not found")
		return
	}
	app.writeJSON(w, r, http.StatusOK, decision)
}

type chooseRequest struct {
	UserID   *int64  `json:"userId"`
	OptionID *string `json:"optionId"`
}

type chooseResponse struct {
	Success      bool                `json:"success"`
	UserProgress models.UserProgress `json:"userProgress"`
	Outcome      string              `json:"outcome"`
}

func (app *application) chooseDecisionOption(w http.ResponseWriter, r *http.Request) {
	decisionID, ok := app.pathID(w, r, "id", "Invalid decision ID")
	if !ok {
		return
	}

	var req chooseRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}
	if req.UserID == nil || req.OptionID == nil || *req.OptionID == "" {
		app.clientError(w, r, http.StatusBadRequest, "Invalid request data")
		return
	}

	result, err := app.engine.ChooseOption(r.Context(), decisionID, *req.UserID, *req.OptionID)
	switch {
	case errors.Is(err, game.ErrDecisionNotFound):
		app.clientError(w, r, http.StatusNotFound, "Decision not found")
		return
	case errors.Is(err, game.ErrInvalidOption):
		app.clientError(w, r, http.StatusBadRequest, "Invalid option ID")
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, chooseResponse{
		Success:      true,
		UserProgress: result.Progress,
		Outcome:      result.Outcome,
	})
}
