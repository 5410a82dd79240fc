// Package handler contains the HTTP handlers. Handlers parse form input,
// call the service layer, and render HTML templates or redirect. They are
// the glue between HTTP and the application, with no business rules of
// their own.
package handler

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/alexedwards/scs/v2"

	"quill/internal/auth"
	"quill/internal/model"
)

// flashKey is the session key for one-shot notification messages. A flash
// is written by one request and popped into the next rendered page.
const flashKey = "flash"

// pages are the page templates; each one is parsed together with the base
// layout so {{define "content"}} blocks can fill the layout's placeholder.
var pages = []string{
	"index",
	"post",
	"make-post",
	"register",
	"login",
	"about",
	"contact",
}

// Renderer owns the parsed templates and the cross-page concerns of every
// HTML response: the current identity and the pending flash message.
type Renderer struct {
	templates map[string]*template.Template
	sessions  *scs.SessionManager
	logger    *slog.Logger
}

// NewRenderer parses all page templates from templateDir.
// Parsing happens once at startup; a broken template fails boot rather
// than the first request that hits it.
func NewRenderer(templateDir string, sessions *scs.SessionManager, logger *slog.Logger) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		tmpl, err := template.ParseFiles(
			filepath.Join(templateDir, "base.html"),
			filepath.Join(templateDir, page+".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("handler: parsing template %s: %w", page, err)
		}
		templates[page] = tmpl
	}
	return &Renderer{
		templates: templates,
		sessions:  sessions,
		logger:    logger,
	}, nil
}

// pageData is what every template receives. Data carries the page-specific
// payload; the rest is filled by render from the request.
type pageData struct {
	Title           string
	Flash           string
	User            *model.User
	IsAuthenticated bool
	IsAdmin         bool
	Data            any
}

// render executes the named page template with the given status code.
func (rn *Renderer) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	tmpl, ok := rn.templates[page]
	if !ok {
		rn.logger.Error("unknown template", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user, _ := auth.CurrentUser(r.Context())
	pd := pageData{
		Title:           title,
		Flash:           rn.sessions.PopString(r.Context(), flashKey),
		User:            user,
		IsAuthenticated: user != nil,
		IsAdmin:         user.IsAdmin(),
		Data:            data,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "base", pd); err != nil {
		// Headers are gone at this point; all we can do is log.
		rn.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// flash stores a one-shot message shown on the next rendered page.
func (rn *Renderer) flash(r *http.Request, message string) {
	rn.sessions.Put(r.Context(), flashKey, message)
}

// notFound writes the terminal 404 response for a missing entity.
func (rn *Renderer) notFound(w http.ResponseWriter, r *http.Request) {
	http.NotFound(w, r)
}

// serverError logs err and writes a generic 500. The raw error never
// reaches the client.
func (rn *Renderer) serverError(w http.ResponseWriter, err error) {
	rn.logger.Error("internal server error", slog.String("error", err.Error()))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
