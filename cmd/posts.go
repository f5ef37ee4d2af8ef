package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/models"
)

func (app *application) indexHandler(w http.ResponseWriter, r *http.Request) {
	feed, err := app.core.IndexFeed(r.Context(), app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"posts": feed.Posts, "metadata": feed.Metadata}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) groupPostsHandler(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	feed, err := app.core.GroupFeed(r.Context(), slug, app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"group": feed.Group, "posts": feed.Posts, "metadata": feed.Metadata}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) profileHandler(w http.ResponseWriter, r *http.Request) {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	feed, err := app.core.ProfileFeed(r.Context(), username, app.currentUser(r), app.readPage(r))
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"author":    feed.Author,
		"following": feed.Author.Following,
		"posts":     feed.Posts,
		"metadata":  feed.Metadata,
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) postDetailHandler(w http.ResponseWriter, r *http.Request) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return
	}

	detail, err := app.core.GetPostDetail(r.Context(), postID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"post":               detail.Post,
		"comments":           detail.Comments,
		"author_posts_count": detail.AuthorPostsCount,
		"form":               commentForm(),
	}
	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

type formField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

func postForm() []formField {
	return []formField{
		{Name: "text", Type: "text", Required: true},
		{Name: "group", Type: "choice", Required: false},
		{Name: "image", Type: "image", Required: false},
	}
}

func commentForm() []formField {
	return []formField{
		{Name: "text", Type: "text", Required: true},
	}
}

func (app *application) renderPostForm(w http.ResponseWriter, r *http.Request, post *models.Post) {
	groups, err := app.core.ListGroups(r.Context())
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	response := envelope{
		"form":    postForm(),
		"groups":  groups,
		"is_edit": post != nil,
	}
	if post != nil {
		response["post"] = post
	}

	if err := app.writeJSON(w, http.StatusOK, response, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) createPostFormHandler(w http.ResponseWriter, r *http.Request) {
	app.renderPostForm(w, r, nil)
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input core.PostInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	post, err := app.core.CreatePost(r.Context(), app.currentUser(r), input)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", core.PostURL(post.ID))

	if err := app.writeJSON(w, http.StatusCreated, envelope{"post": post}, headers); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// postForEdit loads the post named in the route and checks that the
// requester wrote it. It has already responded when ok is false.
func (app *application) postForEdit(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	postID, ok := app.readIDParam(r, "post_id")
	if !ok {
		app.notFoundResponse(w, r)
		return nil, false
	}

	post, err := app.core.GetPost(r.Context(), postID)
	if err != nil {
		app.coreErrorResponse(w, r, err)
		return nil, false
	}

	decision := core.Authorize(app.currentUser(r), core.ActionEditPost, post, r.URL.RequestURI())
	if !decision.Allowed {
		app.redirect(w, r, decision.Redirect)
		return nil, false
	}

	return post, true
}

func (app *application) editPostFormHandler(w http.ResponseWriter, r *http.Request) {
	post, ok := app.postForEdit(w, r)
	if !ok {
		return
	}

	app.renderPostForm(w, r, post)
}

func (app *application) editPostHandler(w http.ResponseWriter, r *http.Request) {
	post, ok := app.postForEdit(w, r)
	if !ok {
		return
	}

	var input core.PostInput
	if err := app.readJSON(w, r, &input); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	edit, err := app.core.EditPost(r.Context(), post.ID, app.currentUser(r), input)
	if err != nil {
		if errors.Is(err, core.ErrNotAuthor) {
			app.redirect(w, r, core.PostURL(post.ID))
			return
		}
		app.coreErrorResponse(w, r, err)
		return
	}

	if replaced := edit.ReplacedImage; replaced != nil {
		app.doInBackground(func() {
			if err := app.media.Remove(*replaced); err != nil {
				app.logger.Error("Failed to remove replaced image", "path", *replaced, "error", err)
			}
		})
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"post": edit.Post}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}
