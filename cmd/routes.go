package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	// Not require authentication for these routes
	router.Handler(http.MethodGet, "/", app.cache.Middleware(http.HandlerFunc(app.indexHandler)))
	router.HandlerFunc(http.MethodGet, "/group/:slug/", app.groupPostsHandler)
	router.HandlerFunc(http.MethodGet, "/profile/:username/", app.profileHandler)
	router.HandlerFunc(http.MethodGet, "/posts/:post_id/", app.postDetailHandler)
	router.HandlerFunc(http.MethodGet, "/auth/login/", app.loginFormHandler)
	router.HandlerFunc(http.MethodPost, "/auth/login/", app.loginHandler)
	router.HandlerFunc(http.MethodPost, "/auth/signup/", app.signupHandler)
	router.HandlerFunc(http.MethodGet, "/about/author/", app.aboutAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/about/tech/", app.aboutTechHandler)
	router.HandlerFunc(http.MethodGet, "/media/*filepath", app.mediaHandler)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodGet, "/create/", app.requireAuthenticatedUser(app.createPostFormHandler))
	router.HandlerFunc(http.MethodPost, "/create/", app.requireAuthenticatedUser(app.createPostHandler))
	router.HandlerFunc(http.MethodGet, "/posts/:post_id/edit/", app.requireAuthenticatedUser(app.editPostFormHandler))
	router.HandlerFunc(http.MethodPost, "/posts/:post_id/edit/", app.requireAuthenticatedUser(app.editPostHandler))
	router.HandlerFunc(http.MethodPost, "/posts/:post_id/comment/", app.requireAuthenticatedUser(app.addCommentHandler))
	router.HandlerFunc(http.MethodGet, "/follow/", app.requireAuthenticatedUser(app.followIndexHandler))
	router.HandlerFunc(http.MethodGet, "/profile/:username/follow/", app.requireAuthenticatedUser(app.followHandler))
	router.HandlerFunc(http.MethodGet, "/profile/:username/unfollow/", app.requireAuthenticatedUser(app.unfollowHandler))

	return app.recoverPanic(app.authenticate(router))
}
