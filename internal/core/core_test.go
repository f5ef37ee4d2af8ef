package core

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/data"
	"github.com/siahsang/yatube/internal/database/databasetest"
	"github.com/siahsang/yatube/internal/media"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
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

type testEnv struct {
	core   *Core
	models data.Models
	images *media.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := databasetest.New(t)
	models := data.NewModels(databasetest.NewSQLTemplate(db), log)

	images, err := media.NewStore(t.TempDir(), log)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	c := NewCore(log, models, databaseutils.NewSession(db, log), images, 10)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return &testEnv{core: c, models: models, images: images}
}

func (e *testEnv) user(t *testing.T, username string) *auth.User {
	t.Helper()
	user, err := e.core.Signup(context.Background(), SignupInput{Username: username, Password: "secret-password"})
	if err != nil {
		t.Fatalf("Signup %q: %v", username, err)
	}
	return user
}

func (e *testEnv) group(t *testing.T, title, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: title, Slug: slug, Description: "Тестовое описание"}
	if err := e.core.CreateGroup(context.Background(), group); err != nil {
		t.Fatalf("CreateGroup %q: %v", slug, err)
	}
	return group
}

func (e *testEnv) post(t *testing.T, author *auth.User, text string, groupID *int64) *models.Post {
	t.Helper()
	post, err := e.core.CreatePost(context.Background(), author, PostInput{Text: text, GroupID: groupID})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	return post
}

func (e *testEnv) postCount(t *testing.T) int64 {
	t.Helper()
	count, err := e.models.Posts.Count(context.Background(), data.PostQuery{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	return count
}

func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want a validation error", err)
	}
	if _, ok := verr.Errors[field]; !ok {
		t.Fatalf("validation errors %v do not mention %q", verr.Errors, field)
	}
}

func feedIDs(posts []*models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
	}
	return ids
}
