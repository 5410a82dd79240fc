package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/apperror"
	"quill/internal/model"
	"quill/internal/repository"
)

const MaxCommentLength = 5000

// CommentService handles business logic for comments.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, logger *slog.Logger) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

// Add persists a new comment by user on the given post.
//
// An anonymous caller gets apperror.ErrUnauthorized and nothing is
// persisted; the handler turns that into a redirect to the login form.
// The target post must exist. Successive identical submissions each append
// a new comment; there is no deduplication.
func (s *CommentService) Add(ctx context.Context, user *model.User, postID, text string) (*model.Comment, error) {
	if user == nil {
		return nil, apperror.Unauthorized("Please log in to post a comment.")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "comment text is required")
	}
	if len(text) > MaxCommentLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("comment must be %d characters or less", MaxCommentLength))
	}

	post, err := s.posts.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Text:     text,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		s.logger.Error("failed to create comment",
			slog.String("postID", post.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.logger.Info("comment added",
		slog.String("id", comment.ID),
		slog.String("postID", post.ID),
		slog.String("authorID", user.ID),
	)

	return comment, nil
}

// ListByPost returns a post's comments in creation order.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	comments, err := s.comments.ListCommentsByPost(ctx, postID)
	if err != nil {
		s.logger.Error("failed to list comments",
			slog.String("postID", postID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	return comments, nil
}
