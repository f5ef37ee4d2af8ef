package core

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/siahsang/yatube/internal/validator"
	"github.com/siahsang/yatube/models"
)

var SlugRX = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// CreateSlug lowers the title, turns spaces into hyphens and drops
// punctuation.
func CreateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")

	replacements := []string{".", ",", "!", "?", ":", ";", "'", "\"", "(", ")", "[", "]", "{", "}", "/", "\\"}
	for _, char := range replacements {
		slug = strings.ReplaceAll(slug, char, "")
	}

	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return strings.Trim(slug, "-")
}

// CreateGroup stores a group. Groups are set up by administrators, so there
// is no HTTP route for this; an empty slug is derived from the title.
func (c *Core) CreateGroup(ctx context.Context, group *models.Group) error {
	if strings.TrimSpace(group.Slug) == "" {
		group.Slug = CreateSlug(group.Title)
	}

	v := validator.New()
	v.CheckNotBlank(group.Title, "title", "This field is required.")
	v.Check(utf8.RuneCountInString(group.Title) <= 200, "title", "Ensure this value has at most 200 characters.")
	v.Check(SlugRX.MatchString(group.Slug), "slug",
		"Enter a valid slug consisting of letters, numbers, underscores or hyphens.")
	if !v.IsValid() {
		return newValidationError(v.Errors)
	}

	if err := c.models.Groups.Insert(ctx, group); err != nil {
		return err
	}

	c.log.Info("Group created", "group_id", group.ID, "slug", group.Slug)
	return nil
}

func (c *Core) GetGroup(ctx context.Context, slug string) (*models.Group, error) {
	return c.models.Groups.GetBySlug(ctx, slug)
}

func (c *Core) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := c.models.Groups.All(ctx)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	return groups, nil
}
