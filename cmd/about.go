package main

import "net/http"

func (app *application) aboutAuthorHandler(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"title": "Об авторе",
		"text":  "Yatube is a small blogging platform: posts, groups, comments and subscriptions to favourite authors.",
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) aboutTechHandler(w http.ResponseWriter, r *http.Request) {
	response := envelope{
		"title": "Технологии",
		"technologies": []string{
			"Go",
			"julienschmidt/httprouter",
			"database/sql with PostgreSQL or SQLite",
			"JWT authentication",
			"hashicorp/golang-lru page cache",
		},
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
