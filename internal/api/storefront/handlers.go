// internal/api/storefront/handlers.go
package storefront

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/availability"
	hourstempl "github.com/codr1/bagelshop/internal/templates/components/hours"
	"github.com/codr1/bagelshop/internal/templates/layouts"
)

const pageQueryTimeout = 5 * time.Second

var (
	service     *availability.Service
	shopName    string
	serviceOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(svc *availability.Service, name string) {
	if svc == nil {
		return
	}
	serviceOnce.Do(func() {
		service = svc
		shopName = name
	})
}

func loadService() *availability.Service {
	return service
}

// GET /
func HandleHomePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	logger := log.Ctx(r.Context())

	svc := loadService()
	if svc == nil {
		logger.Error().Msg("Availability service not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), pageQueryTimeout)
	defer cancel()

	status, err := svc.CurrentStatus(ctx)
	if err != nil {
		// Render the closed fallback rather than failing the page.
		logger.Error().Err(err).Msg("Failed to load business hours")
		status = availability.Status{Now: status.Now}
	}

	title := shopName
	if title == "" {
		title = "Bagel Shop"
	}
	panel := hourstempl.Panel(hourstempl.NewPanelData(status.Hours, status.IsOpen, status.Now))
	page := layouts.Base(title, panel, nil)
	apiutil.RenderHTMLComponent(r.Context(), w, page, "Failed to render home page", "Failed to render page")
}
