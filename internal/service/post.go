package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"quill/internal/apperror"
	"quill/internal/model"
	"quill/internal/repository"
)

const (
	MaxTitleLength    = 250
	MaxSubtitleLength = 250
	MaxImgURLLength   = 250
)

// PostService handles business logic for blog posts.
type PostService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:    posts,
		comments: comments,
		logger:   logger,
	}
}

// List returns all posts in creation order.
func (s *PostService) List(ctx context.Context) ([]model.BlogPost, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns the post with the given id, or apperror.ErrNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*model.BlogPost, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetPost(ctx, id)
}

// Create validates and persists a new post authored by authorID.
//
// The creation date is formatted once, here, and never changes afterwards.
// A title collision returns apperror.ErrConflict from the store.
func (s *PostService) Create(ctx context.Context, authorID, title, subtitle, imgURL, body string) (*model.BlogPost, error) {
	post := &model.BlogPost{
		AuthorID: strings.TrimSpace(authorID),
		Title:    strings.TrimSpace(title),
		Subtitle: strings.TrimSpace(subtitle),
		ImgURL:   strings.TrimSpace(imgURL),
		Body:     body,
		Date:     time.Now().Format(model.DateFormat),
	}

	if post.AuthorID == "" {
		return nil, apperror.ValidationFailed("author", "author is required")
	}
	if err := validatePostFields(post.Title, post.Subtitle, post.ImgURL, post.Body); err != nil {
		return nil, err
	}

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("title", post.Title),
		slog.String("authorID", post.AuthorID),
	)

	return post, nil
}

// Update overwrites the mutable fields of an existing post: title,
// subtitle, image URL and body. The author and the creation date are
// immutable and left untouched.
func (s *PostService) Update(ctx context.Context, id, title, subtitle, imgURL, body string) (*model.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = strings.TrimSpace(title)
	post.Subtitle = strings.TrimSpace(subtitle)
	post.ImgURL = strings.TrimSpace(imgURL)
	post.Body = body

	if err := validatePostFields(post.Title, post.Subtitle, post.ImgURL, post.Body); err != nil {
		return nil, err
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post updated", slog.String("id", post.ID))

	return post, nil
}

// Delete removes a post and its comments.
//
// The store's FK cascade already drops the comments; the explicit delete
// keeps the invariant (no comment may reference a missing post) even on
// a database running without the foreign_keys pragma.
func (s *PostService) Delete(ctx context.Context, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.comments.DeleteCommentsByPost(ctx, post.ID); err != nil {
		return fmt.Errorf("deleting comments of post %s: %w", post.ID, err)
	}
	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		return err
	}

	s.logger.Info("post deleted", slog.String("id", post.ID))

	return nil
}

func validatePostFields(title, subtitle, imgURL, body string) error {
	if title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if subtitle == "" {
		return apperror.ValidationFailed("subtitle", "subtitle is required")
	}
	if len(subtitle) > MaxSubtitleLength {
		return apperror.ValidationFailed("subtitle",
			fmt.Sprintf("subtitle must be %d characters or less", MaxSubtitleLength))
	}
	if imgURL == "" {
		return apperror.ValidationFailed("img_url", "image URL is required")
	}
	if len(imgURL) > MaxImgURLLength {
		return apperror.ValidationFailed("img_url",
			fmt.Sprintf("image URL must be %d characters or less", MaxImgURLLength))
	}
	if !isValidURL(imgURL) {
		return apperror.ValidationFailed("img_url", "image URL must be a valid URL")
	}
	if strings.TrimSpace(body) == "" {
		return apperror.ValidationFailed("body", "body is required")
	}
	return nil
}

// isValidURL accepts absolute http(s) URLs only.
func isValidURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
