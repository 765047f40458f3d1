// internal/api/products/handlers_test.go
package products

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/codr1/bagelshop/internal/db"
	"github.com/codr1/bagelshop/internal/menu"
	"github.com/codr1/bagelshop/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func setupService(t *testing.T) {
	t.Helper()

	service = nil
	serviceOnce = sync.Once{}

	InitHandlers(menu.NewService(db.NewMenuStore(testutil.NewTestDB(t))))
	t.Cleanup(func() {
		service = nil
		serviceOnce = sync.Once{}
	})
}

func createProduct(t *testing.T, body string) menu.Product {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleCreateProduct(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create product: status %d body %s", rec.Code, rec.Body.String())
	}
	var product menu.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}
	return product
}

func TestHandleCreateProductValidation(t *testing.T) {
	setupService(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "blank name", body: `{"name":"","category":"bagels","priceCents":250}`, field: "name"},
		{name: "bad category", body: `{"name":"Muffin","category":"pastries","priceCents":250}`, field: "category"},
		{name: "zero price", body: `{"name":"Plain","category":"bagels","priceCents":0}`, field: "priceCents"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleCreateProduct(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), `"field":"`+tt.field+`"`) {
				t.Fatalf("expected field %q, got %s", tt.field, rec.Body.String())
			}
		})
	}
}

func TestHandlePublicMenuGroupsAvailable(t *testing.T) {
	setupService(t)
	createProduct(t, `{"name":"Plain Bagel","category":"bagels","priceCents":200}`)
	createProduct(t, `{"name":"Coffee","category":"drinks","priceCents":250}`)
	createProduct(t, `{"name":"Lox","category":"sides","priceCents":500,"available":false}`)

	rec := httptest.NewRecorder()
	HandlePublicMenu(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var grouped menu.CategorizedProducts
	if err := json.Unmarshal(rec.Body.Bytes(), &grouped); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(grouped.Bagels) != 1 || len(grouped.Drinks) != 1 || len(grouped.Sides) != 0 {
		t.Fatalf("unexpected grouping: %+v", grouped)
	}
}

func TestHandleUpdateProduct(t *testing.T) {
	setupService(t)
	product := createProduct(t, `{"name":"Plain Bagel","category":"bagels","priceCents":200}`)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`))
	req.SetPathValue("id", product.ID)
	rec := httptest.NewRecorder()
	HandleUpdateProduct(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected empty patch rejected, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"priceCents":225}`))
	req.SetPathValue("id", product.ID)
	rec = httptest.NewRecorder()
	HandleUpdateProduct(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"priceCents":225}`))
	req.SetPathValue("id", "missing")
	rec = httptest.NewRecorder()
	HandleUpdateProduct(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestHandleSetAvailabilityHidesProduct(t *testing.T) {
	setupService(t)
	product := createProduct(t, `{"name":"Plain Bagel","category":"bagels","priceCents":200}`)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"available":false}`))
	req.SetPathValue("id", product.ID)
	rec := httptest.NewRecorder()
	HandleSetAvailability(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HandlePublicMenu(rec, httptest.NewRequest(http.MethodGet, "/api/v1/menu", nil))
	var grouped menu.CategorizedProducts
	if err := json.Unmarshal(rec.Body.Bytes(), &grouped); err != nil {
		t.Fatalf("decode menu: %v", err)
	}
	if len(grouped.Bagels) != 0 {
		t.Fatalf("expected hidden bagel, got %+v", grouped.Bagels)
	}

	rec = httptest.NewRecorder()
	HandleListProducts(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil))
	var all []menu.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(all) != 1 || all[0].Available {
		t.Fatalf("expected one unavailable product, got %+v", all)
	}
}

func TestHandleBulkDelete(t *testing.T) {
	setupService(t)
	first := createProduct(t, `{"name":"Plain Bagel","category":"bagels","priceCents":200}`)
	second := createProduct(t, `{"name":"Coffee","category":"drinks","priceCents":250}`)

	body := `{"ids":["` + first.ID + `","` + second.ID + `","missing"]}`
	rec := httptest.NewRecorder()
	HandleBulkDelete(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var result menu.BulkDeleteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.DeletedCount != 2 || result.FailedCount != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	rec = httptest.NewRecorder()
	HandleBulkDelete(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ids":[]}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected empty ids rejected, got %d", rec.Code)
	}
}

func TestHandleUploadURLWithoutImageStore(t *testing.T) {
	setupService(t)

	rec := httptest.NewRecorder()
	HandleUploadURL(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/upload-url", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
}

func TestHandleStatusOptionsAndCategories(t *testing.T) {
	setupService(t)
	createProduct(t, `{"name":"Coffee","category":"drinks","priceCents":250}`)

	rec := httptest.NewRecorder()
	HandleStatusOptions(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), `"label":"Available"`) {
		t.Fatalf("unexpected status options: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	HandleCategories(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.TrimSpace(rec.Body.String()) != `["drinks"]` {
		t.Fatalf("unexpected categories: %s", rec.Body.String())
	}
}
