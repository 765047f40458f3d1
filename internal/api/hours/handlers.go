// internal/api/hours/handlers.go
package hours

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/availability"
)

const hoursQueryTimeout = 5 * time.Second

var (
	service     *availability.Service
	serviceOnce sync.Once
)

type activeRequest struct {
	IsActive *bool `json:"isActive"`
}

type openStatusResponse struct {
	IsOpen bool `json:"isOpen"`
}

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *availability.Service) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
	})
}

func loadService() *availability.Service {
	return service
}

func requireService(w http.ResponseWriter, r *http.Request) *availability.Service {
	svc := loadService()
	if svc == nil {
		log.Ctx(r.Context()).Error().Msg("Availability service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return svc
}

// GET /api/v1/hours
func HandleBusinessHours(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	view, err := svc.CurrentBusinessHours(ctx)
	if err != nil {
		// The public view degrades to "no hours" instead of failing.
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load business hours")
		view = nil
	}
	writeJSON(w, r, http.StatusOK, view)
}

// GET /api/v1/hours/open
func HandleOpenStatus(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	open, err := svc.IsCurrentlyOpen(ctx)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to load open status")
		open = false
	}
	writeJSON(w, r, http.StatusOK, openStatusResponse{IsOpen: open})
}

// GET /api/v1/admin/schedules
func HandleListSchedules(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	schedules, err := svc.ListSchedules(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to list schedules")
		return
	}
	writeJSON(w, r, http.StatusOK, schedules)
}

// POST /api/v1/admin/schedules
func HandleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	var req availability.ScheduleInput
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	schedule, err := svc.CreateSchedule(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to create schedule")
		return
	}
	log.Ctx(r.Context()).Info().Str("schedule_id", schedule.ID).Bool("active", schedule.IsActive).Msg("Schedule created")
	writeJSON(w, r, http.StatusCreated, schedule)
}

// PATCH /api/v1/admin/schedules/{id}
func HandleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid schedule ID")
		return
	}

	var req availability.SchedulePatch
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	schedule, err := svc.UpdateSchedule(ctx, id, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to update schedule")
		return
	}
	writeJSON(w, r, http.StatusOK, schedule)
}

// PUT /api/v1/admin/schedules/{id}/active
func HandleSetScheduleActive(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid schedule ID")
		return
	}

	var req activeRequest
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}
	if req.IsActive == nil {
		apiutil.WriteError(w, r, apiutil.FieldError{Field: "isActive", Reason: "is required"}, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	if err := svc.ToggleScheduleActive(ctx, id, *req.IsActive); err != nil {
		apiutil.WriteError(w, r, err, "Failed to update schedule")
		return
	}
	log.Ctx(r.Context()).Info().Str("schedule_id", id).Bool("active", *req.IsActive).Msg("Schedule activation changed")
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/admin/schedules/{id}
func HandleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid schedule ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	if err := svc.DeleteSchedule(ctx, id); err != nil {
		apiutil.WriteError(w, r, err, "Failed to delete schedule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/admin/overrides
func HandleListOverrides(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	overrides, err := svc.ListOverrides(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to list overrides")
		return
	}
	writeJSON(w, r, http.StatusOK, overrides)
}

// POST /api/v1/admin/overrides
func HandleCreateOverride(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	var req availability.OverrideInput
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	override, err := svc.CreateOverride(ctx, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to create override")
		return
	}
	writeJSON(w, r, http.StatusCreated, override)
}

// PATCH /api/v1/admin/overrides/{id}
func HandleUpdateOverride(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid override ID")
		return
	}

	var req availability.OverridePatch
	if err := apiutil.DecodeJSON(r, &req); err != nil {
		apiutil.WriteError(w, r, apiutil.BadRequest(err), "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	override, err := svc.UpdateOverride(ctx, id, req)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to update override")
		return
	}
	writeJSON(w, r, http.StatusOK, override)
}

// DELETE /api/v1/admin/overrides/{id}
func HandleDeleteOverride(w http.ResponseWriter, r *http.Request) {
	svc := requireService(w, r)
	if svc == nil {
		return
	}

	id, err := apiutil.PathID(r, "id")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid override ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hoursQueryTimeout)
	defer cancel()

	if err := svc.DeleteOverride(ctx, id); err != nil {
		apiutil.WriteError(w, r, err, "Failed to delete override")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
