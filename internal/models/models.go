package models

import "time"

// Product represents a catalog product
type Product struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	Brand           string         `json:"brand"`
	Description     string         `json:"description"`
	Characteristics string         `json:"characteristics"`
	PricingModel    string         `json:"pricingModel"`
	Amount          int64          `json:"amount"`
	CategoryID      int64          `json:"categoryId"`
	Category        *Category      `json:"category,omitempty"`
	Status          string         `json:"status"`
	Promo           bool           `json:"promo"`
	Active          bool           `json:"active"`
	Images          []ProductImage `json:"images,omitempty"`
}

func (p Product) EntityID() int64 { return p.ID }

// ProductImage is an image attached to a product or category
type ProductImage struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadDate time.Time `json:"uploadDate"`
}

// ProductSummary is the embedded product view carried by categories
type ProductSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Category represents a product category
type Category struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Images      []ProductImage   `json:"images,omitempty"`
	Products    []ProductSummary `json:"products,omitempty"`
}

func (c Category) EntityID() int64 { return c.ID }

// Subscription represents a customer order
type Subscription struct {
	ID             int64     `json:"id"`
	SubscriptionID string    `json:"subscriptionId"`
	CustomerID     string    `json:"customerId"`
	ProductID      int64     `json:"productId"`
	OrderNumber    string    `json:"orderNumber"`
	Status         string    `json:"status"`
	Quantity       int       `json:"quantity"`
	Amount         int64     `json:"amount"`
	PaymentMethod  string    `json:"paymentMethod"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (s Subscription) EntityID() int64 { return s.ID }

// User represents a back-office or shop user
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	Enabled   bool   `json:"enabled"`
}

func (u User) EntityID() int64 { return u.ID }

// CarouselSlide represents a homepage carousel section
type CarouselSlide struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	ImageURL string `json:"imageUrl"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

func (c CarouselSlide) EntityID() int64 { return c.ID }

// Product statuses
const (
	ProductStatusAvailable    = "AVAILABLE"
	ProductStatusDiscontinued = "DISCONTINUED"
	ProductStatusOutOfStock   = "OUT_OF_STOCK"
)

// Pricing models
const (
	PricingPerMonthPerUser   = "PER_MONTH_PER_USER"
	PricingPerYearPerUser    = "PER_YEAR_PER_USER"
	PricingPerMonthPerDevice = "PER_MONTH_PER_DEVICE"
	PricingPerYearPerDevice  = "PER_YEAR_PER_DEVICE"
	PricingOneTime           = "ONE_TIME"
)

// Subscription statuses compared case-insensitively by revenue aggregation
const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusEnded    = "ENDED"
	SubscriptionStatusCanceled = "CANCELED"
)

// User roles
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)
