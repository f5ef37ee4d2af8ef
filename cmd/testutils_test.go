package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/config"
	"github.com/siahsang/yatube/internal/core"
	"github.com/siahsang/yatube/internal/database/databasetest"
	"github.com/siahsang/yatube/models"
	"golang.org/x/crypto/bcrypt"
)

// smallGIF is a valid 2x1 GIF image.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

func init() {
	auth.PasswordCost = bcrypt.MinCost
}

type testServer struct {
	app     *application
	handler http.Handler
}

type testUser struct {
	*auth.User
	token string
}

type postJSON struct {
	ID     int64   `json:"id"`
	Text   string  `json:"text"`
	Author string  `json:"author"`
	Image  *string `json:"image"`
	Group  *struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	} `json:"group"`
}

type feedJSON struct {
	Posts    []postJSON `json:"posts"`
	Metadata struct {
		CurrentPage int64 `json:"current_page"`
		LastPage    int64 `json:"last_page"`
	} `json:"metadata"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		PageSize:       10,
		IndexCacheTTL:  time.Minute,
		IndexCacheSize: 16,
		MediaRoot:      t.TempDir(),
		DB: config.DB{
			Driver:       config.DriverSQLite,
			DSN:          ":memory:",
			QueryTimeout: 5 * time.Second,
		},
	}

	app, err := newApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), databasetest.New(t))
	if err != nil {
		t.Fatalf("newApplication: %v", err)
	}
	t.Cleanup(app.wg.Wait)

	return &testServer{app: app, handler: app.routes()}
}

func (ts *testServer) user(t *testing.T, username string) *testUser {
	t.Helper()

	user, err := ts.app.core.Signup(context.Background(), core.SignupInput{Username: username, Password: "secret-password"})
	if err != nil {
		t.Fatalf("Signup %q: %v", username, err)
	}
	token, err := ts.app.auth.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return &testUser{User: user, token: token}
}

func (ts *testServer) group(t *testing.T, slug string) *models.Group {
	t.Helper()

	group := &models.Group{Title: "Тестовый заголовок", Slug: slug, Description: "Тестовое описание"}
	if err := ts.app.core.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	return group
}

func (ts *testServer) post(t *testing.T, author *testUser, text string, groupID *int64) *models.Post {
	t.Helper()

	post, err := ts.app.core.CreatePost(context.Background(), author.User, core.PostInput{Text: text, GroupID: groupID})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

// do sends a request as user, or anonymously when user is nil. A non-nil
// body is sent as JSON.
func (ts *testServer) do(t *testing.T, method, target string, user *testUser, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(js)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req.Header.Set("Authorization", "Token "+user.token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func assertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, rr.Body.String())
	}
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	assertStatus(t, rr, http.StatusFound)
	if got := rr.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}
