// internal/api/export/handlers.go
package export

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/availability"
	xlsx "github.com/codr1/bagelshop/internal/export"
)

const (
	exportQueryTimeout = 15 * time.Second
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	service     *availability.Service
	serviceOnce sync.Once
)

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

// GET /api/v1/admin/export.xlsx
func HandleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Availability service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), exportQueryTimeout)
	defer cancel()

	schedules, err := svc.ListSchedules(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load schedules")
		return
	}
	overrides, err := svc.ListOverrides(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to load overrides")
		return
	}

	var buf bytes.Buffer
	if err := xlsx.WriteWorkbook(&buf, schedules, overrides); err != nil {
		apiutil.WriteError(w, r, err, "Failed to build export")
		return
	}

	filename := fmt.Sprintf("business-hours-%s.xlsx", svc.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("Failed to write export")
	}
}
