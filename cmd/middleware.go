package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/core"
)

// authenticate resolves the "Authorization: Token <jwt>" header into the
// request's user. Requests without the header stay anonymous.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorization := r.Header.Get("Authorization")
		if authorization == "" {
			next.ServeHTTP(w, r)
			return
		}

		authorizationParts := strings.Split(authorization, " ")
		if len(authorizationParts) != 2 || authorizationParts[0] != "Token" {
			app.invalidAuthenticationTokenResponse(w, r, xerrors.New("Authentication header must be in the format 'Token <token>'"))
			return
		}

		token := authorizationParts[1]
		claim, err := app.auth.Authenticate(token)
		if err != nil {
			app.invalidAuthenticationTokenResponse(w, r, err)
			return
		}

		user, err := app.lookupUser(r, claim.Username)
		if err != nil {
			if errors.Is(err, core.NoRecordFound) {
				app.invalidAuthenticationTokenResponse(w, r, err)
				return
			}
			app.internalErrorResponse(w, r, err)
			return
		}

		authenticated := *user
		authenticated.Token = token
		r = app.auth.SetAuthenticatedUser(r, &authenticated)

		next.ServeHTTP(w, r)
	})
}

func (app *application) lookupUser(r *http.Request, username string) (*auth.User, error) {
	if user, ok := app.auth.CachedUser(username); ok {
		return user, nil
	}

	user, err := app.core.GetUserByUsername(r.Context(), username)
	if err != nil {
		return nil, err
	}

	app.auth.CacheAuthenticatedUser(user)
	return user, nil
}

// requireAuthenticatedUser sends anonymous requests to the login page,
// which returns to the requested address afterwards.
func (app *application) requireAuthenticatedUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !app.auth.IsUserAuthenticated(r) {
			app.redirect(w, r, core.LoginRedirectURL(r.URL.RequestURI()))
			return
		}
		next(w, r)
	}
}

func (app *application) currentUser(r *http.Request) *auth.User {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		return nil
	}
	return user
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.internalErrorResponse(w, r, xerrors.New(fmt.Errorf("%v", err)))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
