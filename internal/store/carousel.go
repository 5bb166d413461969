package store

import (
	"context"
	"fmt"
	"strings"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
)

// SlideInput is the homepage carousel form
type SlideInput struct {
	Title    string
	Caption  string
	Position int
	Active   bool
	Image    *ImageUpload
}

func (in *SlideInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("slide title is required")
	}
	return nil
}

func (in *SlideInput) form() *api.Form {
	form := api.NewForm().
		Set("title", in.Title).
		Set("caption", in.Caption).
		SetInt("position", int64(in.Position)).
		SetBool("active", in.Active)
	if in.Image != nil {
		form.AddFile("image", in.Image.Name, in.Image.Data)
	}
	return form
}

// Carousel is the homepage carousel container
type Carousel struct {
	*Container[models.CarouselSlide]
}

// NewCarousel creates the carousel container
func NewCarousel(client *api.Client, notifier *notify.Notifier, snaps SnapshotCache) *Carousel {
	c := NewContainer[models.CarouselSlide]("carousel", client, notifier, snaps, Endpoints{
		List: "/api/v1/carousel",
		Item: func(id int64) string { return fmt.Sprintf("/api/v1/carousel/%d", id) },
	})
	return &Carousel{Container: c}
}

// Create submits a new slide
func (c *Carousel) Create(ctx context.Context, in SlideInput) (models.CarouselSlide, error) {
	if err := in.validate(); err != nil {
		return models.CarouselSlide{}, err
	}
	return c.Container.Create(ctx, in.form())
}

// Update resubmits the full slide form
func (c *Carousel) Update(ctx context.Context, id int64, in SlideInput) (models.CarouselSlide, error) {
	if err := in.validate(); err != nil {
		return models.CarouselSlide{}, err
	}
	return c.Container.Update(ctx, id, in.form())
}
