package devserver

import (
	"time"

	"backoffice-client/internal/models"
)

// Seed loads a small fixture dataset: one admin account, two categories,
// three products, and a handful of subscriptions. Returns the admin
// credentials for convenience.
func (s *Server) Seed() (email, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin := models.User{
		ID:        s.allocID(),
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@example.com",
		Phone:     "+10000000000",
		Role:      models.RoleAdmin,
		Enabled:   true,
	}
	s.users[admin.ID] = admin
	s.passwords[admin.Email] = "admin123"

	software := models.Category{
		ID:          s.allocID(),
		Name:        "Software",
		Description: "Licensed software products",
	}
	hardware := models.Category{
		ID:          s.allocID(),
		Name:        "Hardware",
		Description: "Devices and accessories",
	}
	s.categories[software.ID] = software
	s.categories[hardware.ID] = hardware

	products := []models.Product{
		{
			ID:           s.allocID(),
			Name:         "Endpoint Shield",
			Brand:        "Acme",
			Description:  "Endpoint protection suite",
			PricingModel: models.PricingPerMonthPerDevice,
			Amount:       1200,
			CategoryID:   software.ID,
			Status:       models.ProductStatusAvailable,
			Active:       true,
		},
		{
			ID:           s.allocID(),
			Name:         "Mail Archiver",
			Brand:        "Acme",
			Description:  "Compliance mail archive",
			PricingModel: models.PricingPerYearPerUser,
			Amount:       4800,
			CategoryID:   software.ID,
			Status:       models.ProductStatusAvailable,
			Promo:        true,
			Active:       true,
		},
		{
			ID:           s.allocID(),
			Name:         "Rack Sensor",
			Brand:        "Probe",
			Description:  "Temperature sensor for racks",
			PricingModel: models.PricingOneTime,
			Amount:       9900,
			CategoryID:   hardware.ID,
			Status:       models.ProductStatusOutOfStock,
			Active:       true,
		},
	}
	for _, p := range products {
		s.products[p.ID] = p
	}

	now := time.Now()
	subscriptions := []models.Subscription{
		{
			ID:             s.allocID(),
			SubscriptionID: "sub_1001",
			CustomerID:     "cus_alpha",
			ProductID:      products[0].ID,
			OrderNumber:    "ORD-1001",
			Status:         "active",
			Quantity:       25,
			Amount:         30000,
			PaymentMethod:  "card",
			CreatedAt:      now.Add(-30 * 24 * time.Hour),
			UpdatedAt:      now,
		},
		{
			ID:             s.allocID(),
			SubscriptionID: "sub_1002",
			CustomerID:     "cus_alpha",
			ProductID:      products[1].ID,
			OrderNumber:    "ORD-1002",
			Status:         "ended",
			Quantity:       10,
			Amount:         48000,
			PaymentMethod:  "card",
			CreatedAt:      now.Add(-400 * 24 * time.Hour),
			UpdatedAt:      now.Add(-35 * 24 * time.Hour),
		},
		{
			ID:             s.allocID(),
			SubscriptionID: "sub_1003",
			CustomerID:     "cus_beta",
			ProductID:      products[0].ID,
			OrderNumber:    "ORD-1003",
			Status:         "active",
			Quantity:       5,
			Amount:         6000,
			PaymentMethod:  "invoice",
			CreatedAt:      now.Add(-7 * 24 * time.Hour),
			UpdatedAt:      now,
		},
	}
	for _, sub := range subscriptions {
		s.subscriptions[sub.ID] = sub
	}

	return admin.Email, "admin123"
}
