package store

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
)

// CategoryInput is the category form. Name and description are always
// resent in full, even when unchanged.
type CategoryInput struct {
	Name        string
	Description string
	Images      []ImageUpload
}

func (in *CategoryInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}

func (in *CategoryInput) form() *api.Form {
	form := api.NewForm().
		Set("name", in.Name).
		Set("description", in.Description)
	for _, img := range in.Images {
		form.AddFile("images", img.Name, img.Data)
	}
	return form
}

// Categories is the category resource container
type Categories struct {
	*Container[models.Category]
}

// NewCategories creates the category container. Category updates go through
// PUT, unlike the other resources.
func NewCategories(client *api.Client, notifier *notify.Notifier, snaps SnapshotCache) *Categories {
	c := NewContainer[models.Category]("categories", client, notifier, snaps, Endpoints{
		List:         "/api/v1/categories",
		Item:         func(id int64) string { return fmt.Sprintf("/api/v1/categories/%d", id) },
		Search:       "/api/v1/categories/search",
		UpdateMethod: http.MethodPut,
	})
	c.match = func(cat models.Category, term string) bool {
		return strings.Contains(strings.ToLower(cat.Name), term) ||
			strings.Contains(strings.ToLower(cat.Description), term)
	}
	return &Categories{Container: c}
}

// Create submits a new category
func (c *Categories) Create(ctx context.Context, in CategoryInput) (models.Category, error) {
	if err := in.validate(); err != nil {
		return models.Category{}, err
	}
	return c.Container.Create(ctx, in.form())
}

// Update resubmits the full category form
func (c *Categories) Update(ctx context.Context, id int64, in CategoryInput) (models.Category, error) {
	if err := in.validate(); err != nil {
		return models.Category{}, err
	}
	return c.Container.Update(ctx, id, in.form())
}
