package menu_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codr1/bagelshop/internal/db"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/testutil"
)

type fakeImages struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeImages) UploadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://uploads.example/" + key, nil
}

func (f *fakeImages) URL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://images.example/" + key, nil
}

func (f *fakeImages) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestService(t *testing.T, opts ...menu.Option) *menu.Service {
	t.Helper()
	opts = append([]menu.Option{menu.WithClock(clockwork.NewFakeClockAt(time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)))}, opts...)
	return menu.NewService(db.NewMenuStore(testutil.NewTestDB(t)), opts...)
}

func TestAddProductDefaultsAvailable(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.AddProduct(context.Background(), menu.ProductInput{
		Name:        " Everything Bagel ",
		Category:    menu.CategoryBagels,
		PriceCents:  275,
		Description: "Topped with everything",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Everything Bagel", p.Name)
	assert.True(t, p.Available)
	assert.Equal(t, "$2.75", p.Price())
}

func TestAddProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    menu.ProductInput
		field string
	}{
		{name: "blank name", in: menu.ProductInput{Name: " ", Category: menu.CategoryDrinks, PriceCents: 100}, field: "name"},
		{name: "long name", in: menu.ProductInput{Name: strings.Repeat("a", 101), Category: menu.CategoryDrinks, PriceCents: 100}, field: "name"},
		{name: "bad category", in: menu.ProductInput{Name: "Muffin", Category: "pastries", PriceCents: 100}, field: "category"},
		{name: "zero price", in: menu.ProductInput{Name: "Water", Category: menu.CategoryDrinks}, field: "priceCents"},
		{name: "price too high", in: menu.ProductInput{Name: "Gold", Category: menu.CategoryDrinks, PriceCents: 100000}, field: "priceCents"},
		{name: "long description", in: menu.ProductInput{Name: "Tea", Category: menu.CategoryDrinks, PriceCents: 100, Description: strings.Repeat("x", 501)}, field: "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddProduct(ctx, tt.in)
			var verr *menu.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestListByCategoryOnlyAvailable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	unavailable := false

	for _, in := range []menu.ProductInput{
		{Name: "Plain Bagel", Category: menu.CategoryBagels, PriceCents: 250},
		{Name: "Coffee", Category: menu.CategoryDrinks, PriceCents: 200},
		{Name: "Lox", Category: menu.CategorySides, PriceCents: 400, Available: &unavailable},
	} {
		_, err := svc.AddProduct(ctx, in)
		require.NoError(t, err)
	}

	grouped, err := svc.ListByCategory(ctx)
	require.NoError(t, err)
	assert.Len(t, grouped.Bagels, 1)
	assert.Len(t, grouped.Drinks, 1)
	assert.NotNil(t, grouped.Sides)
	assert.Empty(t, grouped.Sides)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Coffee", "Lox", "Plain Bagel"}, []string{all[0].Name, all[1].Name, all[2].Name})

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []menu.Category{menu.CategoryBagels, menu.CategoryDrinks, menu.CategorySides}, categories)
}

func TestUpdateProduct(t *testing.T) {
	images := &fakeImages{}
	svc := newTestService(t, menu.WithImages(images))
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, menu.ProductInput{
		Name: "Plain Bagel", Category: menu.CategoryBagels, PriceCents: 250,
		Description: "Classic", ImageKey: "products/old",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://images.example/products/old", p.ImageURL)

	_, err = svc.UpdateProduct(ctx, p.ID, menu.ProductPatch{})
	assert.ErrorIs(t, err, menu.ErrNoUpdates)

	price := int64(300)
	blank := ""
	newKey := "products/new"
	updated, err := svc.UpdateProduct(ctx, p.ID, menu.ProductPatch{PriceCents: &price, Description: &blank, ImageKey: &newKey})
	require.NoError(t, err)
	assert.Equal(t, int64(300), updated.PriceCents)
	assert.Empty(t, updated.Description)
	assert.Equal(t, "products/new", updated.ImageKey)
	assert.Equal(t, []string{"products/old"}, images.deleted)

	updated, err = svc.UpdateProduct(ctx, p.ID, menu.ProductPatch{ImageKey: &blank})
	require.NoError(t, err)
	assert.Empty(t, updated.ImageKey)
	assert.Empty(t, updated.ImageURL)
	assert.Equal(t, []string{"products/old", "products/new"}, images.deleted)

	_, err = svc.UpdateProduct(ctx, "missing", menu.ProductPatch{PriceCents: &price})
	assert.ErrorIs(t, err, menu.ErrNotFound)
}

func TestSetAvailability(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.AddProduct(ctx, menu.ProductInput{Name: "Coffee", Category: menu.CategoryDrinks, PriceCents: 200})
	require.NoError(t, err)
	require.NoError(t, svc.SetAvailability(ctx, p.ID, false))

	grouped, err := svc.ListByCategory(ctx)
	require.NoError(t, err)
	assert.Empty(t, grouped.Drinks)
}

func TestDeleteAndBulkDelete(t *testing.T) {
	images := &fakeImages{}
	svc := newTestService(t, menu.WithImages(images))
	ctx := context.Background()

	ids := make([]string, 0, 3)
	for i, name := range []string{"A", "B", "C"} {
		key := ""
		if i == 0 {
			key = "products/a"
		}
		p, err := svc.AddProduct(ctx, menu.ProductInput{Name: name, Category: menu.CategorySides, PriceCents: 100, ImageKey: key})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	require.NoError(t, svc.DeleteProduct(ctx, ids[0]))
	assert.Equal(t, []string{"products/a"}, images.deleted)
	assert.True(t, errors.Is(svc.DeleteProduct(ctx, ids[0]), menu.ErrNotFound))

	result := svc.BulkDelete(ctx, []string{ids[1], "missing", ids[2]})
	assert.Equal(t, menu.BulkDeleteResult{DeletedCount: 2, FailedCount: 1}, result)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestNewImageUpload(t *testing.T) {
	ctx := context.Background()

	_, err := newTestService(t).NewImageUpload(ctx)
	assert.ErrorIs(t, err, menu.ErrImagesDisabled)

	upload, err := newTestService(t, menu.WithImages(&fakeImages{})).NewImageUpload(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.ImageKey, "products/"))
	assert.Equal(t, "https://uploads.example/"+upload.ImageKey, upload.UploadURL)
	assert.Equal(t, time.Date(2025, 3, 3, 10, 15, 0, 0, time.UTC), upload.ExpiresAt)
}

func TestStatusOptions(t *testing.T) {
	options := newTestService(t).StatusOptions()
	assert.Equal(t, []menu.StatusOption{{Value: true, Label: "Available"}, {Value: false, Label: "Unavailable"}}, options)
}

func TestAddBatchOption(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddBatchOption(ctx, "Dozen", 12, 15)
	require.NoError(t, err)
	_, err = svc.AddBatchOption(ctx, "4-Pack", 4, 5)
	require.NoError(t, err)

	_, err = svc.AddBatchOption(ctx, "Free", 1, 100)
	var verr *menu.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "discountPercent", verr.Field)

	options, err := svc.BatchOptions(ctx)
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, 4, options[0].Size)
	assert.Equal(t, "Dozen", options[1].Name)
}
