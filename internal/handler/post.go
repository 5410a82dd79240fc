package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-playground/validator/v10"

	"quill/internal/apperror"
	"quill/internal/auth"
	"quill/internal/model"
	"quill/internal/service"
)

// PostHandler serves the post listing, single-post view with comments, and
// the administrator's create/edit/delete routes. The admin routes are
// registered behind auth.RequireAdmin; the handler itself never re-checks
// the role.
type PostHandler struct {
	posts    *service.PostService
	comments *service.CommentService
	sessions *scs.SessionManager
	renderer *Renderer
	validate *validator.Validate
	logger   *slog.Logger
}

func NewPostHandler(
	posts *service.PostService,
	comments *service.CommentService,
	sessions *scs.SessionManager,
	renderer *Renderer,
	validate *validator.Validate,
	logger *slog.Logger,
) *PostHandler {
	return &PostHandler{
		posts:    posts,
		comments: comments,
		sessions: sessions,
		renderer: renderer,
		validate: validate,
		logger:   logger,
	}
}

type indexData struct {
	Posts []model.BlogPost
}

type postViewData struct {
	Post     *model.BlogPost
	Comments []model.Comment
	Errors   map[string]string
}

type postFormData struct {
	Form    postForm
	Errors  map[string]string
	Editing bool
	PostID  string
}

// Home lists all posts.
//
// HTTP: GET /
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		h.renderer.serverError(w, err)
		return
	}
	h.renderer.render(w, r, http.StatusOK, "index", "Quill", indexData{Posts: posts})
}

// Show displays a single post with its comments and, for logged-in
// readers, the comment form.
//
// HTTP: GET /post/{id}
func (h *PostHandler) Show(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondPostError(w, r, err)
		return
	}

	comments, err := h.comments.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.renderer.serverError(w, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, "post", post.Title, postViewData{
		Post:     post,
		Comments: comments,
	})
}

// AddComment handles a comment submission on a post.
//
// HTTP: POST /post/{id}
//
// Anonymous submissions persist nothing: they flash a prompt and redirect
// to the login form.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	postID := r.PathValue("id")
	user, _ := auth.CurrentUser(r.Context())

	form := commentForm{Text: r.PostFormValue("text")}
	if user != nil {
		if err := h.validate.Struct(form); err != nil {
			h.rerenderPost(w, r, postID, formErrors(err))
			return
		}
	}

	_, err := h.comments.Add(r.Context(), user, postID, form.Text)
	if err != nil {
		switch {
		case errors.Is(err, apperror.ErrUnauthorized):
			h.renderer.flash(r, "Please log in to post a comment.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case errors.Is(err, apperror.ErrNotFound):
			h.renderer.notFound(w, r)
		case errors.Is(err, apperror.ErrValidation):
			var appErr *apperror.AppError
			errors.As(err, &appErr)
			h.rerenderPost(w, r, postID, map[string]string{"Text": appErr.Message})
		default:
			h.renderer.serverError(w, err)
		}
		return
	}

	http.Redirect(w, r, "/post/"+postID, http.StatusSeeOther)
}

// NewPostForm shows the empty create form. Admin only.
//
// HTTP: GET /new-post
func (h *PostHandler) NewPostForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "make-post", "New Post", postFormData{})
}

// CreatePost handles a create submission. Admin only.
//
// HTTP: POST /new-post
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := parsePostForm(r)
	if err := h.validate.Struct(form); err != nil {
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "make-post", "New Post",
			postFormData{Form: form, Errors: formErrors(err)})
		return
	}

	user, _ := auth.CurrentUser(r.Context())
	_, err := h.posts.Create(r.Context(), user.ID, form.Title, form.Subtitle, form.ImgURL, form.Body)
	if err != nil {
		h.rerenderPostForm(w, r, "New Post", postFormData{Form: form}, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// EditPostForm shows the edit form pre-populated from the existing post.
// Admin only.
//
// HTTP: GET /edit-post/{id}
func (h *PostHandler) EditPostForm(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondPostError(w, r, err)
		return
	}

	h.renderer.render(w, r, http.StatusOK, "make-post", "Edit Post", postFormData{
		Form: postForm{
			Title:    post.Title,
			Subtitle: post.Subtitle,
			ImgURL:   post.ImgURL,
			Body:     post.Body,
		},
		Editing: true,
		PostID:  post.ID,
	})
}

// EditPost handles an edit submission. Admin only. The author and the
// creation date are not part of the form and cannot be changed here.
//
// HTTP: POST /edit-post/{id}
func (h *PostHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	postID := r.PathValue("id")
	form := parsePostForm(r)
	if err := h.validate.Struct(form); err != nil {
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "make-post", "Edit Post",
			postFormData{Form: form, Errors: formErrors(err), Editing: true, PostID: postID})
		return
	}

	post, err := h.posts.Update(r.Context(), postID, form.Title, form.Subtitle, form.ImgURL, form.Body)
	if err != nil {
		h.rerenderPostForm(w, r, "Edit Post", postFormData{Form: form, Editing: true, PostID: postID}, err)
		return
	}

	http.Redirect(w, r, "/post/"+post.ID, http.StatusSeeOther)
}

// DeletePost deletes a post and its comments, then redirects to the
// listing. Admin only.
//
// HTTP: GET /delete/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.posts.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondPostError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func parsePostForm(r *http.Request) postForm {
	return postForm{
		Title:    r.PostFormValue("title"),
		Subtitle: r.PostFormValue("subtitle"),
		ImgURL:   r.PostFormValue("img_url"),
		Body:     r.PostFormValue("body"),
	}
}

// respondPostError maps a lookup failure to 404 or 500.
func (h *PostHandler) respondPostError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound), errors.Is(err, apperror.ErrValidation):
		h.renderer.notFound(w, r)
	default:
		h.renderer.serverError(w, err)
	}
}

// rerenderPostForm re-renders the create/edit form after a service
// rejection, with the conflict or field error inline.
func (h *PostHandler) rerenderPostForm(w http.ResponseWriter, r *http.Request, title string, data postFormData, err error) {
	var appErr *apperror.AppError
	switch {
	case errors.Is(err, apperror.ErrConflict):
		errors.As(err, &appErr)
		data.Errors = map[string]string{"Title": appErr.Message}
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "make-post", title, data)
	case errors.Is(err, apperror.ErrValidation):
		errors.As(err, &appErr)
		data.Errors = map[string]string{formFieldName(appErr.Field): appErr.Message}
		h.renderer.render(w, r, http.StatusUnprocessableEntity, "make-post", title, data)
	case errors.Is(err, apperror.ErrNotFound):
		h.renderer.notFound(w, r)
	default:
		h.renderer.serverError(w, err)
	}
}

// rerenderPost re-renders the post page with a comment-form error.
func (h *PostHandler) rerenderPost(w http.ResponseWriter, r *http.Request, postID string, errs map[string]string) {
	post, err := h.posts.Get(r.Context(), postID)
	if err != nil {
		h.respondPostError(w, r, err)
		return
	}
	comments, err := h.comments.ListByPost(r.Context(), post.ID)
	if err != nil {
		h.renderer.serverError(w, err)
		return
	}
	h.renderer.render(w, r, http.StatusUnprocessableEntity, "post", post.Title, postViewData{
		Post:     post,
		Comments: comments,
		Errors:   errs,
	})
}
