package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"quill/internal/apperror"
	"quill/internal/model"
	"quill/internal/repository"
)

// SessionKeyUserID is the session key under which the authenticated user's
// id is stored. Login writes it, Logout destroys the whole session.
const SessionKeyUserID = "userID"

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the values this package stores.
type contextKey string

const userKey contextKey = "user"

// LoadUser is a middleware that resolves the session's user id into a full
// *model.User and stores it in the request context. It never blocks a
// request: anonymous visitors simply get no user in context.
//
// A session pointing at a deleted user is treated as anonymous and the
// stale id is removed from the session.
func LoadUser(sessions *scs.SessionManager, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sessions.GetString(r.Context(), SessionKeyUserID)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetUserByID(r.Context(), id)
			if err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					sessions.Remove(r.Context(), SessionKeyUserID)
				} else {
					logger.Error("failed to load session user",
						slog.String("userID", id),
						slog.String("error", err.Error()),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser retrieves the authenticated user from the request context.
// Returns (nil, false) for anonymous requests.
func CurrentUser(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// RequireAdmin is the authorization guard for post management routes.
// It rejects the request with 403 before any business logic runs unless
// the context carries an administrator identity. Compose it in front of
// the handlers it protects:
//
//	r.With(auth.RequireAdmin).Get("/new-post", h.NewPostForm)
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsAdmin() {
			http.Error(w, "You are not authorized to access this area", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
