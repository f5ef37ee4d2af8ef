package core

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/models"
)

const LoginURL = "/auth/login/"

type Action int

const (
	ActionView Action = iota
	ActionCreatePost
	ActionEditPost
	ActionComment
	ActionFollow
	ActionFollowFeed
)

// Decision is the outcome of Authorize. A denied decision always names
// where the requester should be sent instead.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Authorize decides whether requester may perform action. Anonymous
// requesters of protected actions are sent to the login page with returnTo
// as the next target; a non-author editing a post is sent back to the post.
func Authorize(requester *auth.User, action Action, post *models.Post, returnTo string) Decision {
	if action == ActionView {
		return Decision{Allowed: true}
	}

	if requester == nil {
		return Decision{Redirect: LoginRedirectURL(returnTo)}
	}

	if action == ActionEditPost {
		switch {
		case post == nil:
			return Decision{Redirect: "/"}
		case post.AuthorID != requester.ID:
			return Decision{Redirect: PostURL(post.ID)}
		}
	}

	return Decision{Allowed: true}
}

// LoginRedirectURL builds the login address that returns to next after a
// successful login. Slashes stay literal in the query value.
func LoginRedirectURL(next string) string {
	if next == "" {
		return LoginURL
	}
	return LoginURL + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

func PostURL(id int64) string {
	return fmt.Sprintf("/posts/%d/", id)
}

func ProfileURL(username string) string {
	return "/profile/" + url.PathEscape(username) + "/"
}

func GroupURL(slug string) string {
	return "/group/" + url.PathEscape(slug) + "/"
}
