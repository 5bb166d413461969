package store

import (
	"context"
	"fmt"
	"strings"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
)

// UserInput is the user form used by admin user management
type UserInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      string
	Enabled   bool
}

func (in *UserInput) validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	if in.Role != models.RoleAdmin && in.Role != models.RoleClient {
		return fmt.Errorf("unknown role %q", in.Role)
	}
	return nil
}

func (in *UserInput) form() *api.Form {
	return api.NewForm().
		Set("firstName", in.FirstName).
		Set("lastName", in.LastName).
		Set("email", in.Email).
		Set("phone", in.Phone).
		Set("role", in.Role).
		SetBool("enabled", in.Enabled)
}

// Users is the user resource container
type Users struct {
	*Container[models.User]
}

// NewUsers creates the user container
func NewUsers(client *api.Client, notifier *notify.Notifier, snaps SnapshotCache) *Users {
	c := NewContainer[models.User]("users", client, notifier, snaps, Endpoints{
		List: "/api/v1/user",
		Item: func(id int64) string { return fmt.Sprintf("/api/v1/user/%d", id) },
	})
	return &Users{Container: c}
}

// Create submits a new user
func (u *Users) Create(ctx context.Context, in UserInput) (models.User, error) {
	if err := in.validate(); err != nil {
		return models.User{}, err
	}
	return u.Container.Create(ctx, in.form())
}

// Update resubmits the full user form
func (u *Users) Update(ctx context.Context, id int64, in UserInput) (models.User, error) {
	if err := in.validate(); err != nil {
		return models.User{}, err
	}
	return u.Container.Update(ctx, id, in.form())
}
