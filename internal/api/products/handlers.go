// internal/api/products/handlers.go
package products

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/menu"
)

const (
	productQueryTimeout = 10 * time.Second
	maxBulkDeleteIDs    = 100
)

var (
	service     *menu.Service
	serviceOnce sync.Once
)

type availabilityRequest struct {
	Available *bool `json:"available"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *menu.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

func loadService() *menu.Service {
	return service
}

func requireService(w http.ResponseWriter, r *http.Request) *menu.Service {
	svc := loadService()
	if svc == nil {
		log.Ctx(r.Context()).Error().Msg("Menu service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return svc
}

// GET /api/v1/menu
func HandlePublicMenu(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	grouped, err := svc.ListByCategory(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load menu")
		return
	}
	writeJSON(w, r, http.StatusOK, grouped)
}

// GET /api/v1/menu/batch-options
func HandleBatchOptions(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	options, err := svc.BatchOptions(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load batch options")
		return
	}
	writeJSON(w, r, http.StatusOK, options)
}

// GET /api/v1/admin/products
func HandleListProducts(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	products, err := svc.ListAll(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to list products")
		return
	}
	writeJSON(w, r, http.StatusOK, products)
}

// GET /api/v1/admin/products/categories
func HandleCategories(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	categories, err := svc.Categories(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to list categories")
		return
	}
	writeJSON(w, r, http.StatusOK, categories)
}

// GET /api/v1/admin/products/statuses
func HandleStatusOptions(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}
	writeJSON(w, r, http.StatusOK, svc.StatusOptions())
}

// POST /api/v1/admin/products
func HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	var req menu.ProductInput
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	product, err := svc.AddProduct(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to create product")
		return
	}
	writeJSON(w, r, http.StatusCreated, product)
}

// PATCH /api/v1/admin/products/{id}
func HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid product ID")
		return
	}

	var req menu.ProductPatch
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	product, err := svc.UpdateProduct(ctx, id, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to update product")
		return
	}
	writeJSON(w, r, http.StatusOK, product)
}

// PUT /api/v1/admin/products/{id}/availability
func HandleSetAvailability(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid product ID")
		return
	}

	var req availabilityRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}
	if req.Available == nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "available", Reason: "is required"}, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	if err := svc.SetAvailability(ctx, id, *req.Available); err != nil {
		apiutil.WriteError(w, r, err, "Failed to update product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/admin/products/{id}
func HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	if err := svc.DeleteProduct(ctx, id); err != nil {
		apiutil.WriteError(w, r, err, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/products/bulk-delete
func HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	var req bulkDeleteRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "ids", Reason: "must not be empty"}, "Invalid request body")
		return
	}
	if len(req.IDs) > maxBulkDeleteIDs {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "ids", Reason: "has too many entries"}, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	result := svc.BulkDelete(ctx, req.IDs)
	log.Ctx(r.Context()).Info().
		Int("deleted", result.DeletedCount).
		Int("failed", result.FailedCount).
		Msg("Bulk product delete finished")
	writeJSON(w, r, http.StatusOK, result)
}

// POST /api/v1/admin/products/upload-url
func HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), productQueryTimeout)
	defer cancel()

	upload, err := svc.NewImageUpload(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to create upload URL")
		return
	}
	writeJSON(w, r, http.StatusOK, upload)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
