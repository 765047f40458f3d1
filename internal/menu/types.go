// Package menu manages the products shown on the public menu and their images.
package menu

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Category string

const (
	CategoryBagels Category = "bagels"
	CategoryDrinks Category = "drinks"
	CategorySides  Category = "sides"
)

var Categories = []Category{CategoryBagels, CategoryDrinks, CategorySides}

func (c Category) Valid() bool {
	switch c {
	case CategoryBagels, CategoryDrinks, CategorySides:
		return true
	}
	return false
}

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MinPriceCents        = 1
	MaxPriceCents        = 99999
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	PriceCents  int64     `json:"priceCents"`
	Description string    `json:"description,omitempty"`
	Available   bool      `json:"available"`
	ImageKey    string    `json:"imageKey,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Price formats PriceCents as dollars.
func (p Product) Price() string {
	return fmt.Sprintf("$%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// BatchOption is a bagel bundle sold at a percentage discount.
type BatchOption struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Size            int    `json:"size"`
	DiscountPercent int    `json:"discountPercent"`
}

type StatusOption struct {
	Value bool   `json:"value"`
	Label string `json:"label"`
}

type CategorizedProducts struct {
	Bagels []Product `json:"bagels"`
	Drinks []Product `json:"drinks"`
	Sides  []Product `json:"sides"`
}

type ProductInput struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	PriceCents  int64    `json:"priceCents"`
	Description string   `json:"description,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	ImageKey    string   `json:"imageKey,omitempty"`
}

// ProductPatch updates only the non-nil fields. An empty Description or
// ImageKey clears the stored value.
type ProductPatch struct {
	Name        *string   `json:"name,omitempty"`
	Category    *Category `json:"category,omitempty"`
	PriceCents  *int64    `json:"priceCents,omitempty"`
	Description *string   `json:"description,omitempty"`
	Available   *bool     `json:"available,omitempty"`
	ImageKey    *string   `json:"imageKey,omitempty"`
}

func (p ProductPatch) empty() bool {
	return p.Name == nil && p.Category == nil && p.PriceCents == nil &&
		p.Description == nil && p.Available == nil && p.ImageKey == nil
}

type BulkDeleteResult struct {
	DeletedCount int `json:"deletedCount"`
	FailedCount  int `json:"failedCount"`
}

type ImageUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ImageKey  string    `json:"imageKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

var (
	ErrNotFound       = errors.New("product not found")
	ErrNoUpdates      = errors.New("no updates provided")
	ErrImagesDisabled = errors.New("image storage is not configured")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type Store interface {
	ListProducts(ctx context.Context, availableOnly bool) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	InsertProduct(ctx context.Context, p Product) error
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	ListBatchOptions(ctx context.Context) ([]BatchOption, error)
	InsertBatchOption(ctx context.Context, opt BatchOption) error
}

// ImageStore holds product images by key.
type ImageStore interface {
	UploadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
