package data

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/database/databasetest"
	"github.com/siahsang/yatube/internal/filter"
	"github.com/siahsang/yatube/models"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestModels(t *testing.T) Models {
	t.Helper()
	db := databasetest.New(t)
	return NewModels(databasetest.NewSQLTemplate(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createUser(t *testing.T, m Models, username string) *auth.User {
	t.Helper()
	user := &auth.User{Username: username, Password: []byte("hash"), CreatedAt: baseTime}
	if err := m.Users.Insert(context.Background(), user); err != nil {
		t.Fatalf("insert user %q: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, m Models, slug string) *models.Group {
	t.Helper()
	group := &models.Group{Title: "Заголовок " + slug, Slug: slug, Description: "Описание"}
	if err := m.Groups.Insert(context.Background(), group); err != nil {
		t.Fatalf("insert group %q: %v", slug, err)
	}
	return group
}

func createPost(t *testing.T, m Models, author *auth.User, group *models.Group, text string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID, CreatedAt: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := m.Posts.Insert(context.Background(), post); err != nil {
		t.Fatalf("insert post: %v", err)
	}
	return post
}

func TestDuplicateUsername(t *testing.T) {
	m := setupTestModels(t)
	createUser(t, m, "auth")

	err := m.Users.Insert(context.Background(), &auth.User{Username: "auth", Password: []byte("x"), CreatedAt: baseTime})
	if !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("Insert duplicate = %v, want ErrDuplicateUsername", err)
	}
}

func TestDuplicateGroupSlug(t *testing.T) {
	m := setupTestModels(t)
	createGroup(t, m, "slug")

	err := m.Groups.Insert(context.Background(), &models.Group{Title: "Другая", Slug: "slug"})
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("Insert duplicate = %v, want ErrDuplicateSlug", err)
	}
}

func TestGetMissingRecords(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()

	if _, err := m.Users.GetByUsername(ctx, "nobody"); !errors.Is(err, NoRecordFound) {
		t.Errorf("GetByUsername = %v, want NoRecordFound", err)
	}
	if _, err := m.Groups.GetBySlug(ctx, "nothing"); !errors.Is(err, NoRecordFound) {
		t.Errorf("GetBySlug = %v, want NoRecordFound", err)
	}
	if _, err := m.Posts.Get(ctx, 42); !errors.Is(err, NoRecordFound) {
		t.Errorf("Posts.Get = %v, want NoRecordFound", err)
	}
}

func TestPostRoundTrip(t *testing.T) {
	m := setupTestModels(t)
	author := createUser(t, m, "auth")
	group := createGroup(t, m, "slug")
	created := createPost(t, m, author, group, "Текст", baseTime)

	post, err := m.Posts.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.Text != "Текст" || post.Author != "auth" || post.AuthorID != author.ID {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.Group == nil || post.Group.Slug != "slug" || *post.GroupID != group.ID {
		t.Fatalf("group not loaded: %+v", post.Group)
	}
	if post.Image != nil {
		t.Fatalf("image = %v, want nil", *post.Image)
	}
	if !post.CreatedAt.Equal(baseTime) {
		t.Fatalf("CreatedAt = %v, want %v", post.CreatedAt, baseTime)
	}
}

func TestPostQueryFiltersAndOrder(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	auth1 := createUser(t, m, "auth")
	auth2 := createUser(t, m, "auth-anothe")
	groupA := createGroup(t, m, "a")
	groupB := createGroup(t, m, "b")

	p1 := createPost(t, m, auth1, groupA, "first", baseTime)
	p2 := createPost(t, m, auth2, groupB, "second", baseTime.Add(time.Minute))
	p3 := createPost(t, m, auth1, nil, "third", baseTime.Add(time.Minute))
	p4 := createPost(t, m, auth2, groupA, "fourth", baseTime.Add(2*time.Minute))

	tests := []struct {
		name  string
		query PostQuery
		want  []int64
	}{
		{"all, newest first, ties by id", PostQuery{}, []int64{p4.ID, p3.ID, p2.ID, p1.ID}},
		{"group a", PostQuery{GroupID: &groupA.ID}, []int64{p4.ID, p1.ID}},
		{"group b", PostQuery{GroupID: &groupB.ID}, []int64{p2.ID}},
		{"author", PostQuery{AuthorID: &auth1.ID}, []int64{p3.ID, p1.ID}},
		{"author and group", PostQuery{AuthorID: &auth2.ID, GroupID: &groupA.ID}, []int64{p4.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := m.Posts.Query(ctx, tt.query, filter.NewFilter(1, 10))
			if err != nil {
				t.Fatalf("Query: %v", err)
			}
			assertPostIDs(t, posts, tt.want)

			count, err := m.Posts.Count(ctx, tt.query)
			if err != nil {
				t.Fatalf("Count: %v", err)
			}
			if count != int64(len(tt.want)) {
				t.Fatalf("Count = %d, want %d", count, len(tt.want))
			}
		})
	}
}

func TestPostQueryFollowing(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	reader := createUser(t, m, "reader")
	followed := createUser(t, m, "followed")
	stranger := createUser(t, m, "stranger")

	wanted := createPost(t, m, followed, nil, "visible", baseTime)
	createPost(t, m, stranger, nil, "hidden", baseTime.Add(time.Minute))

	if _, err := m.Follows.Insert(ctx, &models.Follow{UserID: reader.ID, AuthorID: followed.ID, CreatedAt: baseTime}); err != nil {
		t.Fatalf("follow: %v", err)
	}

	posts, err := m.Posts.Query(ctx, PostQuery{FollowerID: &reader.ID}, filter.NewFilter(1, 10))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	assertPostIDs(t, posts, []int64{wanted.ID})

	posts, err = m.Posts.Query(ctx, PostQuery{FollowerID: &stranger.ID}, filter.NewFilter(1, 10))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	assertPostIDs(t, posts, nil)
}

func TestPostUpdateGuardsAuthor(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	author := createUser(t, m, "auth")
	other := createUser(t, m, "other")
	group := createGroup(t, m, "slug")
	post := createPost(t, m, author, nil, "before", baseTime)

	affected, err := m.Posts.Update(ctx, &models.Post{ID: post.ID, AuthorID: other.ID, Text: "hijacked", GroupID: &group.ID})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if affected != 0 {
		t.Fatalf("non-author update affected %d rows", affected)
	}

	affected, err = m.Posts.Update(ctx, &models.Post{ID: post.ID, AuthorID: author.ID, Text: "after", GroupID: &group.ID})
	if err != nil || affected != 1 {
		t.Fatalf("author update = %d, %v", affected, err)
	}

	got, err := m.Posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "after" || got.GroupID == nil || *got.GroupID != group.ID || got.AuthorID != author.ID {
		t.Fatalf("unexpected post after update: %+v", got)
	}
	if !got.CreatedAt.Equal(baseTime) {
		t.Fatalf("CreatedAt changed to %v", got.CreatedAt)
	}
}

func TestCommentsOldestFirst(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	author := createUser(t, m, "auth")
	post := createPost(t, m, author, nil, "post", baseTime)

	for i, text := range []string{"one", "two", "three"} {
		c := &models.Comment{Text: text, AuthorID: author.ID, PostID: post.ID, CreatedAt: baseTime.Add(time.Duration(i) * time.Second)}
		if err := m.Comments.Insert(ctx, c); err != nil {
			t.Fatalf("Insert comment: %v", err)
		}
	}

	comments, err := m.Comments.ListByPost(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListByPost: %v", err)
	}
	if len(comments) != 3 || comments[0].Text != "one" || comments[2].Text != "three" || comments[0].Author != "auth" {
		t.Fatalf("unexpected comments: %+v", comments)
	}

	count, err := m.Comments.CountByPost(ctx, post.ID)
	if err != nil || count != 3 {
		t.Fatalf("CountByPost = %d, %v", count, err)
	}
}

func TestFollowEdgeIsUnique(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	user := createUser(t, m, "auth")
	author := createUser(t, m, "auth-anothe")

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := m.Follows.Insert(ctx, &models.Follow{UserID: user.ID, AuthorID: author.ID, CreatedAt: baseTime})
			if err != nil {
				t.Errorf("Insert: %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Fatalf("%d inserts reported a new edge, want 1", created)
	}
	followers, err := m.Follows.CountFollowers(ctx, author.ID)
	if err != nil || followers != 1 {
		t.Fatalf("CountFollowers = %d, %v; want 1", followers, err)
	}
}

func TestFollowDeleteAndExists(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	user := createUser(t, m, "auth")
	author := createUser(t, m, "auth-anothe")

	removed, err := m.Follows.Delete(ctx, user.ID, author.ID)
	if err != nil || removed {
		t.Fatalf("Delete of missing edge = %v, %v", removed, err)
	}

	if _, err := m.Follows.Insert(ctx, &models.Follow{UserID: user.ID, AuthorID: author.ID, CreatedAt: baseTime}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	exists, err := m.Follows.Exists(ctx, user.ID, author.ID)
	if err != nil || !exists {
		t.Fatalf("Exists = %v, %v", exists, err)
	}
	reverse, err := m.Follows.Exists(ctx, author.ID, user.ID)
	if err != nil || reverse {
		t.Fatalf("reverse edge Exists = %v, %v", reverse, err)
	}

	removed, err = m.Follows.Delete(ctx, user.ID, author.ID)
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	exists, err = m.Follows.Exists(ctx, user.ID, author.ID)
	if err != nil || exists {
		t.Fatalf("Exists after delete = %v, %v", exists, err)
	}
}

func TestSelfFollowRejectedByStore(t *testing.T) {
	m := setupTestModels(t)
	ctx := context.Background()
	user := createUser(t, m, "auth")

	if _, err := m.Follows.Insert(ctx, &models.Follow{UserID: user.ID, AuthorID: user.ID, CreatedAt: baseTime}); err == nil {
		t.Fatal("self-follow accepted by the store")
	}
	exists, err := m.Follows.Exists(ctx, user.ID, user.ID)
	if err != nil || exists {
		t.Fatalf("self edge Exists = %v, %v", exists, err)
	}
}

func assertPostIDs(t *testing.T, posts []*models.Post, want []int64) {
	t.Helper()
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, post := range posts {
		if post.ID != want[i] {
			t.Fatalf("post[%d].ID = %d, want %d", i, post.ID, want[i])
		}
	}
}
