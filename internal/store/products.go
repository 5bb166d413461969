package store

import (
	"context"
	"fmt"
	"strings"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
)

// ImageUpload carries raw image bytes for a multipart submission
type ImageUpload struct {
	Name string
	Data []byte
}

// ProductInput is the full product form; updates resubmit every field
type ProductInput struct {
	Name            string
	Brand           string
	Description     string
	Characteristics string
	PricingModel    string
	Amount          int64
	CategoryID      int64
	Status          string
	Promo           bool
	Active          bool
	Images          []ImageUpload
}

func (in *ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if in.Amount < 0 {
		return fmt.Errorf("product amount must not be negative")
	}
	switch in.PricingModel {
	case models.PricingPerMonthPerUser, models.PricingPerYearPerUser,
		models.PricingPerMonthPerDevice, models.PricingPerYearPerDevice,
		models.PricingOneTime:
	default:
		return fmt.Errorf("unknown pricing model %q", in.PricingModel)
	}
	return nil
}

func (in *ProductInput) form() *api.Form {
	return api.NewForm().
		Set("name", in.Name).
		Set("brand", in.Brand).
		Set("description", in.Description).
		Set("characteristics", in.Characteristics).
		Set("pricingModel", in.PricingModel).
		SetInt("amount", in.Amount).
		SetInt("categoryId", in.CategoryID).
		Set("status", in.Status).
		SetBool("promo", in.Promo).
		SetBool("active", in.Active)
}

// Products is the product resource container
type Products struct {
	*Container[models.Product]
}

// NewProducts creates the product container
func NewProducts(client *api.Client, notifier *notify.Notifier, snaps SnapshotCache) *Products {
	c := NewContainer[models.Product]("products", client, notifier, snaps, Endpoints{
		List:   "/api/v1/products",
		Item:   func(id int64) string { return fmt.Sprintf("/api/v1/products/%d", id) },
		Search: "/api/v1/products/search",
	})
	c.match = func(p models.Product, term string) bool {
		return strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Brand), term) ||
			strings.Contains(strings.ToLower(p.Description), term)
	}
	return &Products{Container: c}
}

// Create submits a new product with its images in a single multipart form
func (p *Products) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	form := in.form()
	for _, img := range in.Images {
		form.AddFile("images", img.Name, img.Data)
	}
	return p.Container.Create(ctx, form)
}

// Update uploads new image bytes through the images sub-resource before the
// field update. If the image call fails the field update does not run and
// the whole operation fails.
func (p *Products) Update(ctx context.Context, id int64, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	if len(in.Images) > 0 {
		imgForm := api.NewForm()
		for _, img := range in.Images {
			imgForm.AddFile("images", img.Name, img.Data)
		}
		if err := p.client.PatchForm(ctx, p.eps.Item(id)+"/images", imgForm, nil); err != nil {
			p.setErr(err)
			return models.Product{}, fmt.Errorf("image upload failed: %w", err)
		}
	}

	return p.Container.Update(ctx, id, in.form())
}

// Deactivate soft-deletes a product: the record stays in the catalog with
// active=false, and the list entry is refreshed from the server rather than
// flipped in place.
func (p *Products) Deactivate(ctx context.Context, id int64) (models.Product, error) {
	return p.Container.Update(ctx, id, api.NewForm().SetBool("active", false))
}

// Remove hard-deletes a product. Deactivate and Remove are deliberately
// distinct operations; callers pick one explicitly.
func (p *Products) Remove(ctx context.Context, id int64) error {
	return p.Container.Delete(ctx, id)
}
