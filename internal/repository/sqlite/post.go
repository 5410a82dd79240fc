package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"quill/internal/apperror"
	"quill/internal/model"
	"quill/internal/repository"
)

var _ repository.PostRepository = (*DB)(nil)

// CreatePost inserts a new blog post. Title uniqueness is enforced by the
// store; a duplicate returns apperror.ErrConflict.
func (db *DB) CreatePost(ctx context.Context, post *model.BlogPost) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO blog_posts (id, author_id, title, subtitle, date, body, img_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		post.Date,
		post.Body,
		post.ImgURL,
		post.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("title", "a post with this title already exists")
		}
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// GetPost retrieves a post by id with the author's display name joined in.
// Returns apperror.ErrNotFound if absent.
func (db *DB) GetPost(ctx context.Context, id string) (*model.BlogPost, error) {
	var post model.BlogPost
	err := db.conn.QueryRowContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Subtitle,
		&post.Date,
		&post.Body,
		&post.ImgURL,
		&post.CreatedAt,
		&post.AuthorName,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return &post, nil
}

// ListPosts returns all posts in creation order, oldest first.
func (db *DB) ListPosts(ctx context.Context) ([]model.BlogPost, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.name
		 FROM blog_posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at ASC, p.id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.BlogPost
	for rows.Next() {
		var p model.BlogPost
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date,
			&p.Body, &p.ImgURL, &p.CreatedAt, &p.AuthorName,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// UpdatePost overwrites title, subtitle, img_url and body in place.
// author_id and date are immutable after creation and deliberately absent
// from the SET list. Returns apperror.ErrNotFound when the id doesn't
// match a row, apperror.ErrConflict when the new title collides.
func (db *DB) UpdatePost(ctx context.Context, post *model.BlogPost) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE blog_posts
		 SET title = ?, subtitle = ?, img_url = ?, body = ?
		 WHERE id = ?`,
		post.Title,
		post.Subtitle,
		post.ImgURL,
		post.Body,
		post.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return apperror.Conflict("title", "a post with this title already exists")
		}
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeletePost removes a post. The comments FK is declared ON DELETE CASCADE,
// so the store drops the post's comments in the same statement.
func (db *DB) DeletePost(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM blog_posts WHERE id = ?`,
		id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("post", id)
	}

	return nil
}
