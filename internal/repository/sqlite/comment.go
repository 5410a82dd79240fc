package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/xid"

	"quill/internal/model"
	"quill/internal/repository"
)

var _ repository.CommentRepository = (*DB)(nil)

// CreateComment inserts a new comment. Each call appends a new row;
// resubmissions are not deduplicated.
func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, text, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment: %w", err)
	}

	return nil
}

// ListCommentsByPost returns a post's comments in creation order with the
// author's name and email joined in for rendering.
func (db *DB) ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.post_id, c.author_id, c.text, c.created_at, u.name, u.email
		 FROM comments c
		 JOIN users u ON u.id = c.author_id
		 WHERE c.post_id = ?
		 ORDER BY c.created_at ASC, c.id ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments for post %s: %w", postID, err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Text, &c.CreatedAt,
			&c.AuthorName, &c.AuthorEmail,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}

// DeleteCommentsByPost removes every comment attached to a post. The FK
// cascade already covers deletion through DeletePost; this exists for
// stores running without the foreign_keys pragma and deletes nothing when
// the cascade got there first.
func (db *DB) DeleteCommentsByPost(ctx context.Context, postID string) error {
	_, err := db.conn.ExecContext(ctx,
		`DELETE FROM comments WHERE post_id = ?`,
		postID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting comments for post %s: %w", postID, err)
	}
	return nil
}
