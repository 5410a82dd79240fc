package sqlite

import (
	"context"
	"testing"

	"quill/internal/model"
)

// newTestDB returns a migrated in-memory database that is torn down with
// the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func seedUser(t *testing.T, db *DB, email, name string) *model.User {
	t.Helper()

	user := &model.User{
		Email:        email,
		Name:         name,
		PasswordHash: "pbkdf2:sha256:1000$c2FsdHNhbHQ=$aGFzaA==",
	}
	if err := db.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}

	return user
}

func seedPost(t *testing.T, db *DB, authorID, title string) *model.BlogPost {
	t.Helper()

	post := &model.BlogPost{
		AuthorID: authorID,
		Title:    title,
		Subtitle: "A subtitle",
		Date:     "August 31, 2026",
		Body:     "<p>Hello, world.</p>",
		ImgURL:   "https://example.com/header.jpg",
	}
	if err := db.CreatePost(context.Background(), post); err != nil {
		t.Fatalf("failed to seed post %q: %v", title, err)
	}

	return post
}

func seedComment(t *testing.T, db *DB, postID, authorID, text string) *model.Comment {
	t.Helper()

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := db.CreateComment(context.Background(), comment); err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	return comment
}
