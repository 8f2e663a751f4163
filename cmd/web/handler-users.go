package main

import (
	"net/http"

	"github.com/tkoskim/breachpoint/internal/errors"
	"github.com/tkoskim/breachpoint/internal/game"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

func (app *application) registerUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := app.readJSON(r, &req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "Invalid user data")
		return
	}
	if req.Username == "" || req.Password == "" {
		app.clientError(w, r, http.StatusBadRequest, "Invalid user data")
		return
	}

	user, err := app.engine.Register(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, game.ErrUsernameTaken):
		app.clientError(w, r, http.StatusConflict, "Username already exists")
		return
	case err != nil:
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, registerResponse{ID: user.ID, Username: user.Username})
}
