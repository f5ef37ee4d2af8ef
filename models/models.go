package models

import "time"

// postTitleLength is how many characters of the text a Post shows as its name.
const postTitleLength = 15

type Profile struct {
	ID             int64  `json:"-"`
	Username       string `json:"username"`
	PostsCount     int64  `json:"posts_count"`
	FollowersCount int64  `json:"followers_count"`
	Following      bool   `json:"following"`
}

type Group struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (g *Group) String() string {
	return g.Title
}

type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"`
	GroupID   *int64    `json:"-"`
	Group     *Group    `json:"group"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"pub_date"`
}

func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > postTitleLength {
		runes = runes[:postTitleLength]
	}
	return string(runes)
}

type Comment struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post"`
	AuthorID  int64     `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created"`
}

type Follow struct {
	ID        int64     `json:"-"`
	UserID    int64     `json:"user"`
	AuthorID  int64     `json:"author"`
	CreatedAt time.Time `json:"created"`
}
