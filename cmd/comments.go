package main

import (
	"net/http"

	"github.com/siahsang/yatube/internal/core"
)

func (app *application) addCommentHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	comment, err := app.core.AddComment(r.Context(), postID, app.currentUser(r), input.Text)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", core.PostURL(postID))

	if err := app.writeJSON(w, http.StatusCreated, envelope{"comment": comment}, headers); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
