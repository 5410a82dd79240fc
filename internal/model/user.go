// Package model defines the data structures used throughout the application.
package model

import (
	"crypto/md5"
	"fmt"
	"strings"
	"time"
)

// Role decides what a user may do. There are exactly two: ordinary members
// can comment, administrators can also manage posts. The role is assigned
// at registration time and never changes through any exposed operation.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents a registered account.
//
// PasswordHash holds the salted PBKDF2 digest produced by auth.PasswordService.
// The plaintext password is never stored and the hash is never rendered, so
// the field carries `json:"-"` as a second line of defence should a User ever
// be serialized.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	Name         string    `json:"name"      db:"name"`
	PasswordHash string    `json:"-"         db:"password_hash"`
	Role         Role      `json:"role"      db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// IsAdmin reports whether the user may manage posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// GravatarURL returns the Gravatar image URL for the user's email.
func (u *User) GravatarURL(size int) string {
	return gravatarURL(u.Email, size)
}

// gravatarURL builds a Gravatar image URL. Gravatar addresses images by the
// MD5 of the trimmed, lowercased email; "retro" is the fallback for
// addresses without a registered avatar.
func gravatarURL(email string, size int) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=retro&r=g", sum, size)
}
