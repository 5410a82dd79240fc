package handler

import "net/http"

// PageHandler serves the static About and Contact pages.
type PageHandler struct {
	renderer *Renderer
}

func NewPageHandler(renderer *Renderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// About serves GET /about.
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "about", "About", nil)
}

// Contact serves GET /contact.
func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderer.render(w, r, http.StatusOK, "contact", "Contact", nil)
}
