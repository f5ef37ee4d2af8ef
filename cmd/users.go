package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/core"
)

func (app *application) signupHandler(w http.ResponseWriter, r *http.Request) {
	var input core.SignupInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	user, err := app.core.Signup(r.Context(), input)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			app.failedValidationResponse(w, r, map[string]string{"username": "A user with that username already exists."})
			return
		}
		app.coreErrorResponse(w, r, err)
		return
	}

	token, err := app.auth.GenerateToken(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, userResponse(user, token), nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginFormHandler(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"form": []formField{
			{Name: "username", Type: "text", Required: true},
			{Name: "password", Type: "password", Required: true},
		},
		"next": safeNext(r.URL.Query().Get("next")),
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user, err := app.core.Login(r.Context(), strings.TrimSpace(input.Username), input.Password)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCredentials) {
			app.badRequestResponse(w, r, &AppError{
				ErrorMessage: "Invalid credentials",
			})
			return
		}
		app.coreErrorResponse(w, r, err)
		return
	}

	token, err := app.auth.GenerateToken(user)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := userResponse(user, token)
	response["next"] = safeNext(r.URL.Query().Get("next"))

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func userResponse(user *auth.User, token string) envelope {
	user.Token = token
	return envelope{"user": user}
}
