package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"

	"quill/internal/apperror"
	"quill/internal/auth"
	"quill/internal/service"
)

// AuthHandler serves the registration, login and logout routes.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *scs.SessionManager
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewAuthHandler(
	authService *service.AuthService,
	sessions *scs.SessionManager,
	renderer *Renderer,
	validate *validator.Validate,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		sessions: sessions,
		renderer: renderer,
		validate: validate,
		logger:   logger,
	}
}

// authFormData is the payload for the register and login templates.
type authFormData struct {
	Form   any
	Errors map[string]string
}

// RegisterForm shows the registration form.
//
// HTTP: GET /register
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "register", "Register", authFormData{Form: registerForm{}})
}

// Register handles a registration submission.
//
// HTTP: POST /register
//
// A duplicate email flashes the conflict message and redirects to the login
// form instead of creating a second row. On success the new user is logged
// in immediately and sent to the post listing.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := registerForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "register", "Register",
			authFormData{Form: form, Errors: formErrors(err)})
		return
	}

	user, err := h.auth.Register(r.Context(), form.Email, form.Password, form.Name)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrConflict):
			h.renderer.flash(r, "You already registered with that email, just log in instead.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, apperror.ErrValidation):
			var appErr *apperror.AppError
			errors.As(err, &appErr)
			h.renderer.render(w, r, http.StatusUnprocessableEntity, "register", "Register",
				authFormData{Form: form, Errors: map[string]string{formFieldName(appErr.Field): appErr.Message}})
		default:
			h.renderer.serverError(w, err)
		}
		return
	}

	h.establishSession(r, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginForm shows the login form.
//
// HTTP: GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "login", "Log In", authFormData{Form: loginForm{}})
}

// Login handles a login submission.
//
// HTTP: POST /login
//
// An unknown email or a wrong password re-renders the form with the
// message from the service; no redirect, no session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "login", "Log In",
			authFormData{Form: form, Errors: formErrors(err)})
		return
	}

	user, err := h.auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			var appErr *apperror.AppError
			errors.As(err, &appErr)
			h.renderer.flash(r, appErr.Message)
			h.renderer.render(w, r, http.StatusUnauthorized, "login", "Log In",
				authFormData{Form: form})
			return
		}
		h.renderer.serverError(w, err)
		return
	}

	h.establishSession(r, user.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session unconditionally and redirects to the listing.
// Logging out while not logged in is a no-op redirect.
//
// HTTP: GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.logger.Error("failed to destroy session", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// establishSession makes userID the current identity. The session token is
// renewed on privilege change to rule out session fixation.
func (h *AuthHandler) establishSession(r *http.Request, userID string) {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.logger.Error("failed to renew session token", slog.String("error", err.Error()))
	}
	h.sessions.Put(r.Context(), auth.SessionKeyUserID, userID)
}
