package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/rs/zerolog/log"

	"github.com/codr1/bagelshop/internal/api/authz"
)

const sessionCookieName = "__session"

// clerkInitialized indicates whether the Clerk SDK has been initialized
var clerkInitialized bool

// verifyToken and fetchUser are swapped in tests.
var (
	verifyToken = func(ctx context.Context, token string) (*clerk.SessionClaims, error) {
		return jwt.Verify(ctx, &jwt.VerifyParams{Token: token})
	}
	fetchUser = user.Get
)

// InitClerk initializes Clerk SDK with the secret key
func InitClerk(secretKey string) {
	if secretKey == "" {
		log.Warn().Msg("Clerk secret key not configured; admin routes will reject every request")
		return
	}
	clerk.SetKey(secretKey)
	clerkInitialized = true
	log.Info().Msg("Clerk SDK initialized")
}

// WithClerkSession verifies the Clerk session token from the `__session`
// cookie or a Bearer header and adds the session claims and an
// authz.Identity to the request context. Requests without a valid token pass
// through anonymously.
func WithClerkSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !clerkInitialized {
			next.ServeHTTP(w, r)
			return
		}

		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := verifyToken(r.Context(), token)
		if err != nil || claims == nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Invalid Clerk session token")
			next.ServeHTTP(w, r)
			return
		}

		ctx := clerk.ContextWithSessionClaims(r.Context(), claims)
		ctx = authz.ContextWithIdentity(ctx, &authz.Identity{UserID: claims.Subject})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Profile fills in email and display name for the signed-in user from Clerk.
// Lookup failures leave the identity with its user ID only.
func Profile(ctx context.Context, identity *authz.Identity) authz.Identity {
	if identity == nil {
		return authz.Identity{}
	}
	profile := *identity
	if !clerkInitialized {
		return profile
	}

	clerkUser, err := fetchUser(ctx, identity.UserID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("clerk_user_id", identity.UserID).Msg("Failed to get Clerk user")
		return profile
	}

	profile.Email = primaryEmail(clerkUser)
	profile.Name = displayName(clerkUser, profile.Email)
	return profile
}

func primaryEmail(u *clerk.User) string {
	if u == nil {
		return ""
	}
	if u.PrimaryEmailAddressID != nil {
		for _, email := range u.EmailAddresses {
			if email != nil && email.ID == *u.PrimaryEmailAddressID {
				return email.EmailAddress
			}
		}
	}
	for _, email := range u.EmailAddresses {
		if email != nil {
			return email.EmailAddress
		}
	}
	return ""
}

func displayName(u *clerk.User, email string) string {
	if u == nil {
		return email
	}
	var parts []string
	for _, part := range []*string{u.FirstName, u.LastName} {
		if part != nil && strings.TrimSpace(*part) != "" {
			parts = append(parts, strings.TrimSpace(*part))
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	return email
}
