// Package repository declares the storage interfaces the service layer
// depends on. Services receive these interfaces, never the concrete sqlite
// types — tests substitute in-memory fakes, and the storage backend can be
// swapped without touching business logic.
package repository

import (
	"context"

	"github.com/sakif/devconnector/internal/model"
)

// UserRepository stores accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrConflict (wrapped) if
	// the email is already registered.
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository stores career profiles, one per user.
//
// Upsert writes only the scalar profile fields (status, skills, social
// links, ...) — it creates the row if missing, updates it otherwise, and
// never touches the embedded experience/education lists. Update rewrites
// the whole document including the lists; it is the write half of the
// read-modify-write cycle used for list mutations.
type ProfileRepository interface {
	Upsert(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	Delete(ctx context.Context, userID string) error
}

// PostRepository stores feed posts. Update rewrites the whole post row and
// is used after in-memory mutation of the likes/comments lists.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	// List returns all posts, newest first.
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
	// DeleteByUserID removes every post authored by the user. Used by the
	// cascading account delete.
	DeleteByUserID(ctx context.Context, userID string) error
}
