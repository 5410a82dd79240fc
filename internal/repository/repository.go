// Package repository defines the storage interfaces the service layer
// depends on. The sqlite subpackage provides the production implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"quill/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	CountUsers(ctx context.Context) (int, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.BlogPost) error
	GetPost(ctx context.Context, id string) (*model.BlogPost, error)
	ListPosts(ctx context.Context) ([]model.BlogPost, error)
	UpdatePost(ctx context.Context, post *model.BlogPost) error
	DeletePost(ctx context.Context, id string) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	ListCommentsByPost(ctx context.Context, postID string) ([]model.Comment, error)
	DeleteCommentsByPost(ctx context.Context, postID string) error
}
