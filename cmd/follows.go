package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/yatube/internal/core"
)

func (app *application) followIndexHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := app.core.FollowFeed(r.Context(), app.currentUser(r), app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"posts": feed.Posts, "metadata": feed.Metadata}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) followHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	if err := app.core.Follow(r.Context(), app.currentUser(r), username); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, core.ProfileURL(username))
}

func (app *application) unfollowHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	if err := app.core.Unfollow(r.Context(), app.currentUser(r), username); err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	app.redirect(w, r, core.ProfileURL(username))
}
