package store

import (
	"context"
	"strings"
	"testing"

	"backoffice-client/internal/models"
	"backoffice-client/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveRevenueCountsActiveAndEnded(t *testing.T) {
	env := newTestEnv(t)
	subs := NewSubscriptions(env.client, env.notifier, nil)
	ctx := context.Background()

	_, err := subs.FetchAll(ctx)
	require.NoError(t, err)

	// seeded statuses are lowercase; the sum is case-insensitive
	assert.Equal(t, int64(84000), subs.ActiveRevenue())
}

func TestCancelByCustomer(t *testing.T) {
	env := newTestEnv(t)
	subs := NewSubscriptions(env.client, env.notifier, nil)
	ctx := context.Background()

	var successes []string
	env.notifier.On(notify.LevelSuccess, func(n notify.Notification) {
		successes = append(successes, n.Message)
	})

	_, err := subs.FetchAll(ctx)
	require.NoError(t, err)

	require.NoError(t, subs.CancelByCustomer(ctx, "cus_alpha"))

	for _, sub := range subs.Items() {
		switch sub.CustomerID {
		case "cus_alpha":
			assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
		case "cus_beta":
			assert.NotEqual(t, models.SubscriptionStatusCanceled, sub.Status)
		}
	}
	assert.Equal(t, int64(6000), subs.ActiveRevenue())

	found := false
	for _, msg := range successes {
		if strings.Contains(msg, "cus_alpha") {
			found = true
		}
	}
	assert.True(t, found, "expected a success notification naming the customer")

	// the cancellation happened server-side too, not just in the held list
	list, err := subs.FetchAll(ctx)
	require.NoError(t, err)
	for _, sub := range list {
		if sub.CustomerID == "cus_alpha" {
			assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
		}
	}
}

func TestCancelUnknownCustomerIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	subs := NewSubscriptions(env.client, env.notifier, nil)
	ctx := context.Background()

	before, err := subs.FetchAll(ctx)
	require.NoError(t, err)

	require.NoError(t, subs.CancelByCustomer(ctx, "cus_nobody"))

	assert.Equal(t, before, subs.Items())
}
