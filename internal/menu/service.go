package menu

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/codr1/bagelshop/internal/metrics"
)

const (
	imagePrefix  = "products/"
	uploadURLTTL = 15 * time.Minute
	imageURLTTL  = time.Hour
)

type Service struct {
	store  Store
	images ImageStore
	clock  clockwork.Clock
	logger zerolog.Logger
}

type Option func(*Service)

// WithImages enables product images. Without it image URLs are empty and
// upload URLs fail with ErrImagesDisabled.
func WithImages(images ImageStore) Option {
	return func(s *Service) { s.images = images }
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		clock:  clockwork.NewRealClock(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListByCategory returns the available products grouped for the public menu.
func (s *Service) ListByCategory(ctx context.Context) (CategorizedProducts, error) {
	products, err := s.store.ListProducts(ctx, true)
	if err != nil {
		return CategorizedProducts{}, fmt.Errorf("list available products: %w", err)
	}
	s.attachImageURLs(ctx, products)

	grouped := CategorizedProducts{
		Bagels: make([]Product, 0),
		Drinks: make([]Product, 0),
		Sides:  make([]Product, 0),
	}
	for _, p := range products {
		switch p.Category {
		case CategoryBagels:
			grouped.Bagels = append(grouped.Bagels, p)
		case CategoryDrinks:
			grouped.Drinks = append(grouped.Drinks, p)
		case CategorySides:
			grouped.Sides = append(grouped.Sides, p)
		}
	}
	return grouped, nil
}

// ListAll returns every product, unavailable ones included, sorted by name.
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	products, err := s.store.ListProducts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	s.attachImageURLs(ctx, products)
	return products, nil
}

// Categories lists the categories that currently have at least one product.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) StatusOptions() []StatusOption {
	return []StatusOption{
		{Value: true, Label: "Available"},
		{Value: false, Label: "Unavailable"},
	}
}

func (s *Service) BatchOptions(ctx context.Context) ([]BatchOption, error) {
	options, err := s.store.ListBatchOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batch options: %w", err)
	}
	return options, nil
}

// AddBatchOption stores a bundle size. The discount is a whole percentage
// below 100.
func (s *Service) AddBatchOption(ctx context.Context, name string, size, discountPercent int) (BatchOption, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return BatchOption{}, &ValidationError{Field: "name", Reason: "Batch name is required"}
	}
	if size < 1 {
		return BatchOption{}, &ValidationError{Field: "size", Reason: "Batch size must be at least 1"}
	}
	if discountPercent < 0 || discountPercent >= 100 {
		return BatchOption{}, &ValidationError{Field: "discountPercent", Reason: "Discount must be between 0 and 99 percent"}
	}
	opt := BatchOption{ID: uuid.NewString(), Name: name, Size: size, DiscountPercent: discountPercent}
	if err := s.store.InsertBatchOption(ctx, opt); err != nil {
		return BatchOption{}, err
	}
	return opt, nil
}

// NewImageUpload reserves a fresh image key and returns a URL the client can
// PUT the file to.
func (s *Service) NewImageUpload(ctx context.Context) (ImageUpload, error) {
	if s.images == nil {
		return ImageUpload{}, ErrImagesDisabled
	}
	key := imagePrefix + uuid.NewString()
	url, err := s.images.UploadURL(ctx, key, uploadURLTTL)
	if err != nil {
		return ImageUpload{}, fmt.Errorf("presign upload: %w", err)
	}
	return ImageUpload{
		UploadURL: url,
		ImageKey:  key,
		ExpiresAt: s.clock.Now().Add(uploadURLTTL).UTC(),
	}, nil
}

func (s *Service) AddProduct(ctx context.Context, in ProductInput) (Product, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return Product{}, err
	}
	if err := validateCategory(in.Category); err != nil {
		return Product{}, err
	}
	if err := validatePrice(in.PriceCents); err != nil {
		return Product{}, err
	}
	description, err := validateDescription(in.Description)
	if err != nil {
		return Product{}, err
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	now := s.clock.Now().UTC()
	p := Product{
		ID:          uuid.NewString(),
		Name:        name,
		Category:    in.Category,
		PriceCents:  in.PriceCents,
		Description: description,
		Available:   available,
		ImageKey:    strings.TrimSpace(in.ImageKey),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertProduct(ctx, p); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}

	s.logger.Info().Str("product_id", p.ID).Str("category", string(p.Category)).Msg("Product added")
	metrics.AddProductMutations("create", 1)
	s.attachImageURL(ctx, &p)
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	if patch.empty() {
		return Product{}, ErrNoUpdates
	}
	current, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	updated := current

	if patch.Name != nil {
		if updated.Name, err = validateName(*patch.Name); err != nil {
			return Product{}, err
		}
	}
	if patch.Category != nil {
		if err := validateCategory(*patch.Category); err != nil {
			return Product{}, err
		}
		updated.Category = *patch.Category
	}
	if patch.PriceCents != nil {
		if err := validatePrice(*patch.PriceCents); err != nil {
			return Product{}, err
		}
		updated.PriceCents = *patch.PriceCents
	}
	if patch.Description != nil {
		if updated.Description, err = validateDescription(*patch.Description); err != nil {
			return Product{}, err
		}
	}
	if patch.Available != nil {
		updated.Available = *patch.Available
	}

	var staleImage string
	if patch.ImageKey != nil {
		key := strings.TrimSpace(*patch.ImageKey)
		if current.ImageKey != "" && current.ImageKey != key {
			staleImage = current.ImageKey
		}
		updated.ImageKey = key
	}

	updated.UpdatedAt = s.clock.Now().UTC()
	if err := s.store.UpdateProduct(ctx, updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	if staleImage != "" {
		s.deleteImage(ctx, staleImage)
	}

	s.logger.Info().Str("product_id", id).Msg("Product updated")
	metrics.AddProductMutations("update", 1)
	s.attachImageURL(ctx, &updated)
	return updated, nil
}

func (s *Service) SetAvailability(ctx context.Context, id string, available bool) error {
	_, err := s.UpdateProduct(ctx, id, ProductPatch{Available: &available})
	return err
}

// DeleteProduct removes the product and its image.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if p.ImageKey != "" {
		s.deleteImage(ctx, p.ImageKey)
	}

	s.logger.Info().Str("product_id", id).Msg("Product deleted")
	metrics.AddProductMutations("delete", 1)
	return nil
}

// BulkDelete deletes each id independently; missing or failing ids are counted,
// not returned as errors.
func (s *Service) BulkDelete(ctx context.Context, ids []string) BulkDeleteResult {
	var result BulkDeleteResult
	for _, id := range ids {
		if err := s.DeleteProduct(ctx, id); err != nil {
			if !errors.Is(err, ErrNotFound) {
				s.logger.Error().Err(err).Str("product_id", id).Msg("Bulk delete failed for product")
			}
			result.FailedCount++
			continue
		}
		result.DeletedCount++
	}
	return result
}

func (s *Service) attachImageURLs(ctx context.Context, products []Product) {
	for i := range products {
		s.attachImageURL(ctx, &products[i])
	}
}

func (s *Service) attachImageURL(ctx context.Context, p *Product) {
	if s.images == nil || p.ImageKey == "" {
		return
	}
	url, err := s.images.URL(ctx, p.ImageKey, imageURLTTL)
	if err != nil {
		s.logger.Warn().Err(err).Str("product_id", p.ID).Msg("Failed to presign product image")
		return
	}
	p.ImageURL = url
}

func (s *Service) deleteImage(ctx context.Context, key string) {
	if s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("image_key", key).Msg("Failed to delete product image")
	}
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", &ValidationError{Field: "name", Reason: "Product name is required"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", &ValidationError{Field: "name", Reason: fmt.Sprintf("Product name must be less than %d characters", MaxNameLength)}
	}
	return name, nil
}

func validateCategory(c Category) error {
	if !c.Valid() {
		return &ValidationError{Field: "category", Reason: "Please select a category"}
	}
	return nil
}

func validatePrice(cents int64) error {
	if cents < MinPriceCents {
		return &ValidationError{Field: "priceCents", Reason: "Price must be greater than 0"}
	}
	if cents > MaxPriceCents {
		return &ValidationError{Field: "priceCents", Reason: "Price must be less than $1000"}
	}
	return nil
}

func validateDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		return "", &ValidationError{Field: "description", Reason: fmt.Sprintf("Description must be less than %d characters", MaxDescriptionLength)}
	}
	return description, nil
}
