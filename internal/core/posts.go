package core

import (
	"context"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/auth"
	"github.com/siahsang/yatube/internal/media"
	"github.com/siahsang/yatube/internal/utils/databaseutils"
	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

type ImageUpload struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
}

// PostInput is the user-editable part of a post. A nil Image leaves the
// current image in place on edit.
type PostInput struct {
	Text    string       `json:"text"`
	GroupID *int64       `json:"group"`
	Image   *ImageUpload `json:"image"`
}

type PostDetail struct {
	Post             *models.Post      `json:"post"`
	Comments         []*models.Comment `json:"comments"`
	AuthorPostsCount int64             `json:"author_posts_count"`
}

func (c *Core) validatePostInput(ctx context.Context, v *validator.Validator, input PostInput) error {
	v.CheckNotBlank(input.Text, "text", "This field is required.")

	if input.GroupID != nil {
		if _, err := c.models.Groups.GetByID(ctx, *input.GroupID); err != nil {
			if !errors.Is(err, NoRecordFound) {
				return err
			}
			v.AddError("group", "Select a valid choice. That choice is not one of the available choices.")
		}
	}

	if input.Image != nil && len(input.Image.Content) == 0 {
		v.AddError("image", "The submitted file is empty.")
	}

	return nil
}

// storeImage saves the upload, if any. A rejected file becomes a field
// error on v rather than a failure.
func (c *Core) storeImage(v *validator.Validator, upload *ImageUpload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	stored, err := c.images.Save(upload.Name, upload.Content)
	if err != nil {
		if errors.Is(err, media.ErrNotImage) {
			v.AddError("image", media.ErrNotImage.Error())
			return nil, nil
		}
		return nil, err
	}
	return &stored, nil
}

func (c *Core) discardImage(stored *string) {
	if stored == nil {
		return
	}
	if err := c.images.Remove(*stored); err != nil {
		c.log.Error("Failed to remove orphaned image", "path", *stored, "error", err)
	}
}

// CreatePost publishes a new post by author. The author and creation time
// are always taken from the server side.
func (c *Core) CreatePost(ctx context.Context, author *auth.User, input PostInput) (*models.Post, error) {
	if author == nil {
		return nil, xerrors.New(ErrAuthenticationRequired)
	}

	v := validator.New()
	if err := c.validatePostInput(ctx, v, input); err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, newValidationError(v.Errors)
	}

	image, err := c.storeImage(v, input.Image)
	if err != nil {
		return nil, err
	}
	if !v.IsValid() {
		return nil, newValidationError(v.Errors)
	}

	post := &models.Post{
		Text:      strings.TrimSpace(input.Text),
		AuthorID:  author.ID,
		GroupID:   input.GroupID,
		Image:     image,
		CreatedAt: c.now(),
	}

	created, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*models.Post, error) {
		if err := c.models.Posts.Insert(txCtx, post); err != nil {
			return nil, err
		}
		return c.models.Posts.Get(txCtx, post.ID)
	})
	if err != nil {
		c.discardImage(image)
		return nil, err
	}

	c.log.Info("Post created", "post_id", created.ID, "author", author.Username)
	return created, nil
}

// PostEdit is the outcome of EditPost. ReplacedImage is the stored image
// the edit superseded, read in the same transaction as the update; the
// caller removes it once the edit is committed.
type PostEdit struct {
	Post          *models.Post
	ReplacedImage *string
}

// EditPost replaces the text, group and image of a post. Only the author
// may edit; anyone else gets ErrNotAuthor and the post is left untouched.
func (c *Core) EditPost(ctx context.Context, postID int64, editor *auth.User, input PostInput) (*PostEdit, error) {
	if editor == nil {
		return nil, xerrors.New(ErrAuthenticationRequired)
	}

	var newImage *string
	edit, err := databaseutils.DoTransactionally(ctx, c.session, func(txCtx context.Context) (*PostEdit, error) {
		post, err := c.models.Posts.Get(txCtx, postID)
		if err != nil {
			return nil, err
		}
		if post.AuthorID != editor.ID {
			return nil, xerrors.New(ErrNotAuthor)
		}

		v := validator.New()
		if err := c.validatePostInput(txCtx, v, input); err != nil {
			return nil, err
		}
		if !v.IsValid() {
			return nil, newValidationError(v.Errors)
		}

		newImage, err = c.storeImage(v, input.Image)
		if err != nil {
			return nil, err
		}
		if !v.IsValid() {
			return nil, newValidationError(v.Errors)
		}

		var replaced *string
		post.Text = strings.TrimSpace(input.Text)
		post.GroupID = input.GroupID
		if newImage != nil {
			replaced = post.Image
			post.Image = newImage
		}

		affected, err := c.models.Posts.Update(txCtx, post)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, xerrors.New(ErrNotAuthor)
		}

		edited, err := c.models.Posts.Get(txCtx, postID)
		if err != nil {
			return nil, err
		}
		return &PostEdit{Post: edited, ReplacedImage: replaced}, nil
	})
	if err != nil {
		c.discardImage(newImage)
		return nil, err
	}

	c.log.Info("Post edited", "post_id", edit.Post.ID, "author", editor.Username)
	return edit, nil
}

func (c *Core) GetPost(ctx context.Context, postID int64) (*models.Post, error) {
	return c.models.Posts.Get(ctx, postID)
}

// GetPostDetail loads a post with its comments, oldest first, and the
// number of posts its author has published.
func (c *Core) GetPostDetail(ctx context.Context, postID int64) (*PostDetail, error) {
	post, err := c.models.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := c.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	count, err := c.models.Posts.Count(ctx, postQueryByAuthor(post.AuthorID))
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: count,
	}, nil
}
