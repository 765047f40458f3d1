// internal/api/admins/handlers.go
package admins

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/apiutil"
	"github.com/codr1/bagelshop/internal/api/auth"
	"github.com/codr1/bagelshop/internal/api/authz"
	"github.com/codr1/bagelshop/internal/db"
)

const adminQueryTimeout = 5 * time.Second

// Store is the subset of db.AdminStore the handlers use.
type Store interface {
	GetAdmin(ctx context.Context, userID string) (authz.Admin, error)
	ListAdmins(ctx context.Context) ([]authz.Admin, error)
	CreateAdmin(ctx context.Context, userID string, now time.Time) (authz.Admin, error)
	DeleteAdmin(ctx context.Context, userID string) error
}

var (
	store      Store
	allowSetup bool
	clock      clockwork.Clock = clockwork.NewRealClock()
	storeOnce  sync.Once
)

type currentUserResponse struct {
	User    *authz.Identity `json:"user"`
	IsAdmin bool            `json:"isAdmin"`
}

type adminUserResponse struct {
	authz.Identity
	Role string `json:"role"`
}

// InitHandlers must be called during server startup before handling requests.
// setupEnabled turns on POST /api/v1/setup/admin.
func InitHandlers(s Store, setupEnabled bool) {
	if s == nil {
		return
	}
	storeOnce.Do(func() {
		store = s
		allowSetup = setupEnabled
	})
}

func loadStore() Store {
	return store
}

func requireStore(w http.ResponseWriter, r *http.Request) Store {
	s := loadStore()
	if s == nil {
		log.Ctx(r.Context()).Error().Msg("Admin store not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
	return s
}

// GET /api/v1/me
func HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity := authz.IdentityFromContext(r.Context())
	if identity == nil {
		writeJSON(w, r, http.StatusOK, currentUserResponse{})
		return
	}

	profile := auth.Profile(r.Context(), identity)
	writeJSON(w, r, http.StatusOK, currentUserResponse{
		User:    &profile,
		IsAdmin: authz.AdminFromContext(r.Context()) != nil,
	})
}

// GET /api/v1/admin/me
func HandleAdminMe(w http.ResponseWriter, r *http.Request) {
	identity := authz.IdentityFromContext(r.Context())
	admin := authz.AdminFromContext(r.Context())
	if identity == nil || admin == nil {
		apiutil.WriteError(w, r, authz.ErrForbidden, "Forbidden")
		return
	}

	writeJSON(w, r, http.StatusOK, adminUserResponse{
		Identity: auth.Profile(r.Context(), identity),
		Role:     admin.Role,
	})
}

// GET /api/v1/admin/admins
func HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	s := requireStore(w, r)
	if s == nil {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	admins, err := s.ListAdmins(ctx)
	if err != nil {
		apiutil.WriteError(w, r, err, "Failed to list admins")
		return
	}
	writeJSON(w, r, http.StatusOK, admins)
}

// DELETE /api/v1/admin/admins/{userId}
func HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	s := requireStore(w, r)
	if s == nil {
		return
	}

	userID, err := apiutil.PathID(r, "userId")
	if err != nil {
		apiutil.WriteError(w, r, err, "Invalid user ID")
		return
	}

	identity := authz.IdentityFromContext(r.Context())
	if identity != nil && identity.UserID == userID {
		apiutil.WriteError(w, r, apiutil.HandlerError{
			Status:  http.StatusBadRequest,
			Message: "Cannot remove yourself as admin",
		}, "Cannot remove yourself as admin")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	if err := s.DeleteAdmin(ctx, userID); err != nil {
		if errors.Is(err, db.ErrAdminNotFound) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status:  http.StatusNotFound,
				Message: "Admin not found",
				Err:     err,
			}, "Admin not found")
			return
		}
		apiutil.WriteError(w, r, err, "Failed to remove admin")
		return
	}

	log.Ctx(r.Context()).Info().Str("removed_user_id", userID).Msg("Admin removed")
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/setup/admin grants the signed-in user admin rights. It exists
// only for bootstrapping and is off unless features.allow_admin_setup is set.
func HandleSetupAdmin(w http.ResponseWriter, r *http.Request) {
	s := requireStore(w, r)
	if s == nil {
		return
	}
	if !allowSetup {
		http.NotFound(w, r)
		return
	}

	identity := authz.IdentityFromContext(r.Context())
	if identity == nil {
		apiutil.WriteError(w, r, authz.ErrUnauthenticated, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), adminQueryTimeout)
	defer cancel()

	admin, err := s.CreateAdmin(ctx, identity.UserID, clock.Now())
	if err != nil {
		if errors.Is(err, db.ErrAdminExists) {
			apiutil.WriteError(w, r, apiutil.HandlerError{
				Status:  http.StatusConflict,
				Message: "User is already an admin",
				Err:     err,
			}, "User is already an admin")
			return
		}
		apiutil.WriteError(w, r, err, "Failed to create admin")
		return
	}

	log.Ctx(r.Context()).Info().Str("clerk_user_id", admin.UserID).Msg("Admin created via setup")
	writeJSON(w, r, http.StatusCreated, admin)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := apiutil.WriteJSON(w, status, payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write response")
	}
}
