package model

import "time"

// Comment is a reader's comment on a post. Comments are write-once: there
// is no exposed edit or delete operation. Deleting the parent post removes
// its comments.
type Comment struct {
	ID        string    `json:"id"        db:"id"`
	PostID    string    `json:"postId"    db:"post_id"`
	AuthorID  string    `json:"authorId"  db:"author_id"`
	Text      string    `json:"text"      db:"text"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Joined author fields for rendering; not columns of comments.
	AuthorName  string `json:"authorName,omitempty"  db:"-"`
	AuthorEmail string `json:"-"                     db:"-"`
}

// GravatarURL returns the comment author's Gravatar image URL.
// Requires AuthorEmail to be populated by the joining query.
func (c *Comment) GravatarURL(size int) string {
	return gravatarURL(c.AuthorEmail, size)
}

