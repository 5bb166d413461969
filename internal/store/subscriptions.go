package store

import (
	"context"
	"fmt"
	"strings"

	"backoffice-client/internal/api"
	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"
	"backoffice-client/internal/util"
)

// Subscriptions is the order container. Orders are created by the shop, not
// the back office: the client only lists, inspects, and cancels them.
type Subscriptions struct {
	*Container[models.Subscription]
}

// NewSubscriptions creates the subscription container
func NewSubscriptions(client *api.Client, notifier *notify.Notifier, snaps SnapshotCache) *Subscriptions {
	c := NewContainer[models.Subscription]("subscriptions", client, notifier, snaps, Endpoints{
		List: "/api/v1/subscriptions",
		Item: func(id int64) string { return fmt.Sprintf("/api/v1/subscriptions/%d", id) },
	})
	return &Subscriptions{Container: c}
}

type cancelRequest struct {
	CustomerID string `json:"customerId"`
}

// CancelByCustomer cancels every order belonging to the customer. On success
// the held orders with that customer id flip to CANCELED; all other orders
// are untouched. This is a broad side effect by the backend's contract.
func (s *Subscriptions) CancelByCustomer(ctx context.Context, customerID string) error {
	ctx, span := util.StartSpan(ctx, "store.subscriptions.CancelByCustomer")
	defer span.End()

	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.client.Post(ctx, "/api/v1/subscriptions/subscription/cancel", cancelRequest{CustomerID: customerID}, nil); err != nil {
		s.setErr(err)
		return err
	}

	s.mutate(func(items []models.Subscription) {
		for i := range items {
			if items[i].CustomerID == customerID {
				items[i].Status = models.SubscriptionStatusCanceled
			}
		}
	})
	s.clearErr()
	s.notify.Success("Subscriptions canceled for customer " + customerID)
	return nil
}

// ActiveRevenue sums the amounts counted by the revenue widgets. Order
// status is free text, so the comparison is case-insensitive.
func (s *Subscriptions) ActiveRevenue() int64 {
	var total int64
	for _, sub := range s.Items() {
		if strings.EqualFold(sub.Status, models.SubscriptionStatusActive) ||
			strings.EqualFold(sub.Status, models.SubscriptionStatusEnded) {
			total += sub.Amount
		}
	}
	return total
}
