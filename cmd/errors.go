package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/core"
)

type AppError struct {
	ErrorStack   error
	ErrorMessage string
	ErrorDetails map[string]string
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, appError *AppError) {
	app.errorResponse(w, r, http.StatusBadRequest, appError)
}

func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string]string) {
	app.errorResponse(w, r, http.StatusBadRequest, &AppError{
		ErrorMessage: "The submitted data is invalid.",
		ErrorDetails: fieldErrors,
	})
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, &AppError{
		ErrorMessage: "The requested resource could not be found.",
		ErrorDetails: map[string]string{"path": r.URL.Path},
	})
}

func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, &AppError{
		ErrorMessage: fmt.Sprintf("The %s method is not supported for this resource.", r.Method),
	})
}

func (app *application) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("WWW-Authenticate", "Token")
	app.errorResponse(w, r, http.StatusUnauthorized, &AppError{
		ErrorStack:   err,
		ErrorMessage: "Invalid or missing authentication token.",
	})
}

func (app *application) internalErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusInternalServerError, &AppError{ErrorStack: err,
		ErrorMessage: "An internal server error occurred.",
	})
}

// coreErrorResponse maps the errors returned by core commands onto HTTP
// responses. Errors it does not know are internal errors.
func (app *application) coreErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationError *core.ValidationError

	switch {
	case errors.As(err, &validationError):
		app.failedValidationResponse(w, r, validationError.Errors)
	case errors.Is(err, core.NoRecordFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, core.ErrAuthenticationRequired):
		app.redirect(w, r, core.LoginRedirectURL(r.URL.RequestURI()))
	default:
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusFound)
}

func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, appError *AppError) {
	errorDetails := envelope{
		"errorMessage": appError.ErrorMessage,
		"errorDetails": appError.ErrorDetails,
	}

	var attrs []slog.Attr
	attrs = append(attrs, slog.String("request_url", r.URL.String()))
	attrs = append(attrs, slog.String("request_method", r.Method))
	attrs = append(attrs, slog.Int("status", status))
	if appError.ErrorStack != nil {
		attrs = append(attrs, slog.String("stack", xerrors.Sprint(appError.ErrorStack)))
	}

	for key, valueData := range appError.ErrorDetails {
		attrs = append(attrs, slog.Any(key, valueData))
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	app.logger.LogAttrs(r.Context(), level, "Error in handling request", attrs...)

	err := app.writeJSON(w, status, errorDetails, nil)
	if err != nil {
		app.logger.Error(err.Error())
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}

	// Append a newline to make it easier to view in terminal applications.
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(js); err != nil {
		app.logger.Error(err.Error())
		return err
	}

	return nil
}
