package main

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/siahsang/yatube/internal/media"
)

func (app *application) mediaHandler(w http.ResponseWriter, r *http.Request) {
	name := httprouter.ParamsFromContext(r.Context()).ByName("filepath")

	file, info, err := app.media.Open(name)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}
	defer file.Close()

	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}
