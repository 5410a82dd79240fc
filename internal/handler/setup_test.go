package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"quill/internal/auth"
	"quill/internal/repository/sqlite"
	"quill/internal/service"
)

// testApp runs the full application (router, sessions, services, an
// in-memory database) behind an httptest server. The client carries a
// cookie jar so sessions persist across requests, and does not follow
// redirects so tests can assert on them.
type testApp struct {
	server *httptest.Server
	client *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	sessions := scs.New()
	sessions.Lifetime = time.Hour

	passwords := auth.NewPasswordServiceForTest(1000)
	validate := validator.New()

	authService := service.NewAuthService(db, passwords, logger)
	postService := service.NewPostService(db, db, logger)
	commentService := service.NewCommentService(db, db, logger)

	renderer, err := NewRenderer("../../web/templates", sessions, logger)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}

	authHandler := NewAuthHandler(authService, sessions, renderer, validate, logger)
	postHandler := NewPostHandler(postService, commentService, sessions, renderer, validate, logger)
	pageHandler := NewPageHandler(renderer)

	router := chi.NewRouter()
	router.Use(sessions.LoadAndSave)
	router.Use(auth.LoadUser(sessions, db, logger))

	router.Get("/", postHandler.Home)
	router.Get("/about", pageHandler.About)
	router.Get("/contact", pageHandler.Contact)
	router.Get("/register", authHandler.RegisterForm)
	router.Post("/register", authHandler.Register)
	router.Get("/login", authHandler.LoginForm)
	router.Post("/login", authHandler.Login)
	router.Get("/logout", authHandler.Logout)
	router.Get("/post/{id}", postHandler.Show)
	router.Post("/post/{id}", postHandler.AddComment)
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin)
		r.Get("/new-post", postHandler.NewPostForm)
		r.Post("/new-post", postHandler.CreatePost)
		r.Get("/edit-post/{id}", postHandler.EditPostForm)
		r.Post("/edit-post/{id}", postHandler.EditPost)
		r.Get("/delete/{id}", postHandler.DeletePost)
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}

	return &testApp{
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (app *testApp) get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := app.client.Get(app.server.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	return resp
}

func (app *testApp) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()

	resp, err := app.client.PostForm(app.server.URL+path, form)
	if err != nil {
		t.Fatalf("POST %s failed: %v", path, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(body)
}

// register submits the registration form and expects success. The first
// registration on a fresh app creates the administrator.
func (app *testApp) register(t *testing.T, email, password, name string) {
	t.Helper()

	resp := app.postForm(t, "/register", url.Values{
		"email":    {email},
		"password": {password},
		"name":     {name},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("registration of %s: expected 303, got %d", email, resp.StatusCode)
	}
}

func (app *testApp) login(t *testing.T, email, password string) {
	t.Helper()

	resp := app.postForm(t, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login of %s: expected 303, got %d", email, resp.StatusCode)
	}
}

func (app *testApp) logout(t *testing.T) {
	t.Helper()

	resp := app.get(t, "/logout")
	resp.Body.Close()
}

// createPost submits the new-post form as the current user and returns the
// new post's id, scraped from the listing page.
func (app *testApp) createPost(t *testing.T, title string) string {
	t.Helper()

	resp := app.postForm(t, "/new-post", url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://example.com/header.jpg"},
		"body":     {"<p>Hello, world.</p>"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("creating post %q: expected 303, got %d", title, resp.StatusCode)
	}

	return app.findPostID(t, title)
}

var postLinkPattern = regexp.MustCompile(`href="/post/([a-z0-9]+)">\s*<h2>([^<]+)</h2>`)

func (app *testApp) findPostID(t *testing.T, title string) string {
	t.Helper()

	body := readBody(t, app.get(t, "/"))
	for _, match := range postLinkPattern.FindAllStringSubmatch(body, -1) {
		if strings.TrimSpace(match[2]) == title {
			return match[1]
		}
	}
	t.Fatalf("post %q not found on listing page", title)
	return ""
}
