package model

import (
	"html/template"
	"time"
)

// DateFormat is the layout for BlogPost.Date, e.g. "August 31, 2026".
// The date is formatted once at creation and stored as a string; it is
// display data, not a timestamp, and never changes after creation.
const DateFormat = "January 02, 2006"

// BlogPost is a published article. Title is unique across all posts
// (enforced by the store). AuthorID references the user who created the
// post and is immutable, as is Date.
type BlogPost struct {
	ID        string    `json:"id"        db:"id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	Title     string    `json:"title"     db:"title"`
	Subtitle  string    `json:"subtitle"  db:"subtitle"`
	Date      string    `json:"date"      db:"date"`
	Body      string    `json:"body"      db:"body"`
	ImgURL    string    `json:"imgUrl"    db:"img_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// AuthorName is populated by queries that join users; it is not a column
	// of blog_posts.
	AuthorName string `json:"authorName,omitempty" db:"-"`
}

// BodyHTML returns the post body for template rendering. The body is
// authored by the administrator through the post editor and is trusted
// markup, not reader input.
func (p *BlogPost) BodyHTML() template.HTML {
	return template.HTML(p.Body)
}
