// Package store defines the persistence interface for the storefront and its
// MongoDB and in-memory implementations.
package store

import (
	"context"
	"errors"

	"go-storefront/models"
)

// Sentinel errors surfaced to controllers, which map them to HTTP statuses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
)

// ProductUpdate carries the editable catalog fields for updateproduct. All
// fields are written unconditionally, matching the storefront's update
// semantics.
type ProductUpdate struct {
	Name     string
	OldPrice float64
	NewPrice float64
	Category string
}

// Store is the persistence surface for the whole backend.
type Store interface {
	ProductStore
	UserStore

	// WithTransaction runs fn atomically. Store operations invoked with the
	// context passed to fn join the transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProductStore covers the catalog collection.
type ProductStore interface {
	AllProducts(ctx context.Context) ([]models.Product, error)
	ProductByID(ctx context.Context, id int) (*models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int) error
	UpdateProduct(ctx context.Context, id int, u ProductUpdate) (*models.Product, error)
	SetPopular(ctx context.Context, id int, popular bool) (*models.Product, error)
	SetAllPopular(ctx context.Context, popular bool) (int64, error)
	SetQuantity(ctx context.Context, id, quantity int) (*models.Product, error)
	SetAllQuantity(ctx context.Context, quantity int) (int64, error)
	NewestProducts(ctx context.Context, limit int) ([]models.Product, error)
	PopularProducts(ctx context.Context) ([]models.Product, error)

	// NextProductID returns the next id from the atomic catalog sequence. The
	// sequence is seeded from the highest existing id, or 39 when the catalog
	// is empty, so the first assigned id is 40.
	NextProductID(ctx context.Context) (int, error)

	// AdjustStock changes a product's quantity by delta. A negative delta that
	// would drive the quantity below zero fails with ErrInsufficientStock and
	// leaves the product untouched.
	AdjustStock(ctx context.Context, id, delta int) error
}

// UserStore covers the user collection, including the embedded cart.
type UserStore interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	InsertUser(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, currentEmail, name, address, email string) (*models.User, error)
	AllUsers(ctx context.Context) ([]models.User, error)

	SetCartQuantity(ctx context.Context, email, productID string, quantity int) error
	RemoveCartEntry(ctx context.Context, email, productID string) error
}
