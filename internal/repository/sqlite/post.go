package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// PostDB implements repository.PostRepository.
type PostDB struct {
	conn *sql.DB
}

var _ repository.PostRepository = (*PostDB)(nil)

// Create inserts a new post, generating its ID and timestamp in place. The
// author's name and avatar arrive already denormalized on the model.
func (p *PostDB) Create(ctx context.Context, post *model.Post) error {
	post.ID = xid.New().String()
	post.CreatedAt = time.Now().UTC()
	if post.Likes == nil {
		post.Likes = []model.Like{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	likes, err := marshalDoc(post.Likes)
	if err != nil {
		return fmt.Errorf("sqlite: encoding likes: %w", err)
	}
	comments, err := marshalDoc(post.Comments)
	if err != nil {
		return fmt.Errorf("sqlite: encoding comments: %w", err)
	}

	_, err = p.conn.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, name, avatar_url, text, likes, comments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		post.Name,
		post.AvatarURL,
		post.Text,
		likes,
		comments,
		post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting post for user %s: %w", post.UserID, err)
	}

	return nil
}

// GetByID retrieves a single post.
// Returns apperror.ErrNotFound if no post exists with that ID.
func (p *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	row := p.conn.QueryRowContext(ctx,
		`SELECT id, user_id, name, avatar_url, text, likes, comments, created_at
		 FROM posts WHERE id = ?`,
		id,
	)

	post, err := scanPost(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %s: %w", id, err)
	}

	return post, nil
}

// List returns all posts, newest first.
func (p *PostDB) List(ctx context.Context) ([]model.Post, error) {
	rows, err := p.conn.QueryContext(ctx,
		`SELECT id, user_id, name, avatar_url, text, likes, comments, created_at
		 FROM posts ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	posts := []model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}

// Update rewrites the whole post row — the write half of every likes or
// comments mutation.
func (p *PostDB) Update(ctx context.Context, post *model.Post) error {
	likes, err := marshalDoc(post.Likes)
	if err != nil {
		return fmt.Errorf("sqlite: encoding likes: %w", err)
	}
	comments, err := marshalDoc(post.Comments)
	if err != nil {
		return fmt.Errorf("sqlite: encoding comments: %w", err)
	}

	res, err := p.conn.ExecContext(ctx,
		`UPDATE posts SET text = ?, likes = ?, comments = ? WHERE id = ?`,
		post.Text,
		likes,
		comments,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// Delete removes a post by ID.
func (p *PostDB) Delete(ctx context.Context, id string) error {
	res, err := p.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}

// DeleteByUserID removes every post authored by the user. Zero rows is fine
// — a user with no posts is still deletable.
func (p *PostDB) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := p.conn.ExecContext(ctx, `DELETE FROM posts WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting posts for user %s: %w", userID, err)
	}
	return nil
}

func scanPost(s scanner) (*model.Post, error) {
	var (
		post     model.Post
		likes    []byte
		comments []byte
	)

	err := s.Scan(
		&post.ID,
		&post.UserID,
		&post.Name,
		&post.AvatarURL,
		&post.Text,
		&likes,
		&comments,
		&post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalDoc(likes, &post.Likes); err != nil {
		return nil, fmt.Errorf("decoding likes: %w", err)
	}
	if err := unmarshalDoc(comments, &post.Comments); err != nil {
		return nil, fmt.Errorf("decoding comments: %w", err)
	}

	if post.Likes == nil {
		post.Likes = []model.Like{}
	}
	if post.Comments == nil {
		post.Comments = []model.Comment{}
	}

	return &post, nil
}
