package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"quill/internal/apperror"
	"quill/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockUserRepo is an in-memory stand-in for the sqlite user store.
type mockUserRepo struct {
	users  []*model.User
	nextID int
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("email", "a user with this email already exists")
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.Role == "" {
		user.Role = model.RoleMember
	}
	m.users = append(m.users, user)
	return nil
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) CountUsers(_ context.Context) (int, error) {
	return len(m.users), nil
}

// mockPostRepo is an in-memory stand-in for the sqlite post store.
type mockPostRepo struct {
	posts  []*model.BlogPost
	nextID int
}

func (m *mockPostRepo) CreatePost(_ context.Context, post *model.BlogPost) error {
	for _, p := range m.posts {
		if p.Title == post.Title {
			return apperror.Conflict("title", "a post with this title already exists")
		}
	}
	m.nextID++
	post.ID = fmt.Sprintf("post-%d", m.nextID)
	m.posts = append(m.posts, post)
	return nil
}

func (m *mockPostRepo) GetPost(_ context.Context, id string) (*model.BlogPost, error) {
	for _, p := range m.posts {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("post", id)
}

func (m *mockPostRepo) ListPosts(_ context.Context) ([]model.BlogPost, error) {
	out := make([]model.BlogPost, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPostRepo) UpdatePost(_ context.Context, post *model.BlogPost) error {
	for _, p := range m.posts {
		if p.Title == post.Title && p.ID != post.ID {
			return apperror.Conflict("title", "a post with this title already exists")
		}
	}
	for _, p := range m.posts {
		if p.ID == post.ID {
			p.Title = post.Title
			p.Subtitle = post.Subtitle
			p.ImgURL = post.ImgURL
			p.Body = post.Body
			return nil
		}
	}
	return apperror.NotFound("post", post.ID)
}

func (m *mockPostRepo) DeletePost(_ context.Context, id string) error {
	for i, p := range m.posts {
		if p.ID == id {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("post", id)
}

// mockCommentRepo is an in-memory stand-in for the sqlite comment store.
type mockCommentRepo struct {
	comments []*model.Comment
	nextID   int
}

func (m *mockCommentRepo) CreateComment(_ context.Context, comment *model.Comment) error {
	m.nextID++
	comment.ID = fmt.Sprintf("comment-%d", m.nextID)
	m.comments = append(m.comments, comment)
	return nil
}

func (m *mockCommentRepo) ListCommentsByPost(_ context.Context, postID string) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCommentRepo) DeleteCommentsByPost(_ context.Context, postID string) error {
	kept := m.comments[:0]
	for _, c := range m.comments {
		if c.PostID != postID {
			kept = append(kept, c)
		}
	}
	m.comments = kept
	return nil
}
