package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// MaxPostLength bounds the post/comment body so one post cannot bloat a
// whole feed page.
const MaxPostLength = 10000

// PostService handles the posts feed: creation, the like/unlike toggle,
// comments, and the ownership rules on deletion.
type PostService struct {
	posts  repository.PostRepository
	users  repository.UserRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(posts repository.PostRepository, users repository.UserRepository, logger *slog.Logger) *PostService {
	return &PostService{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

// Create validates and stores a new post, denormalizing the author's name
// and avatar onto it.
func (s *PostService) Create(ctx context.Context, userID, text string) (*model.Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if len(text) > MaxPostLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d characters or less", MaxPostLength))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/post: fetching author %s: %w", userID, err)
	}

	post := &model.Post{
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Text:      text,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post: %w", err)
	}

	s.logger.Info("post created",
		slog.String("postID", post.ID),
		slog.String("userID", userID),
	)

	return post, nil
}

// List returns all posts, newest first.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		s.logger.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	return posts, nil
}

// GetByID returns a single post.
func (s *PostService) GetByID(ctx context.Context, postID string) (*model.Post, error) {
	postID = strings.TrimSpace(postID)
	if postID == "" {
		return nil, apperror.ValidationFailed("id", "post ID is required")
	}
	return s.posts.GetByID(ctx, postID)
}

// Delete removes a post. Only the post's owner may delete it — any other
// authenticated identity gets a Forbidden regardless of how well-formed the
// request is.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return apperror.Forbidden("user not authorized to delete this post")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("service/post: deleting post %s: %w", postID, err)
	}

	s.logger.Info("post deleted",
		slog.String("postID", postID),
		slog.String("userID", userID),
	)
	return nil
}

// Like records a like, newest first. A second like by the same user is
// rejected — likes are keyed by acting user, one per post.
func (s *PostService) Like(ctx context.Context, userID, postID string) ([]model.Like, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	for _, like := range post.Likes {
		if like.UserID == userID {
			return nil, apperror.ValidationFailed("likes", "post already liked")
		}
	}

	post.Likes = append([]model.Like{{UserID: userID}}, post.Likes...)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: liking post %s: %w", postID, err)
	}

	return post.Likes, nil
}

// Unlike removes the caller's like. Unliking a post the caller never liked
// is rejected.
func (s *PostService) Unlike(ctx context.Context, userID, postID string) ([]model.Like, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, like := range post.Likes {
		if like.UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.ValidationFailed("likes", "post has not yet been liked")
	}

	post.Likes = append(post.Likes[:idx], post.Likes[idx+1:]...)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: unliking post %s: %w", postID, err)
	}

	return post.Likes, nil
}

// AddComment prepends a comment with the commenter's denormalized name and
// avatar, and returns the updated comments list.
func (s *PostService) AddComment(ctx context.Context, userID, postID, text string) ([]model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperror.ValidationFailed("text", "text is required")
	}
	if len(text) > MaxPostLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d characters or less", MaxPostLength))
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/post: fetching commenter %s: %w", userID, err)
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := model.Comment{
		ID:        xid.New().String(),
		UserID:    user.ID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	post.Comments = append([]model.Comment{comment}, post.Comments...)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: commenting on post %s: %w", postID, err)
	}

	return post.Comments, nil
}

// RemoveComment deletes a comment. Only the comment's own author may remove
// it — even the post's owner may not delete someone else's comment.
func (s *PostService) RemoveComment(ctx context.Context, userID, postID, commentID string) ([]model.Comment, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, c := range post.Comments {
		if c.ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.NotFound("comment", commentID)
	}

	if post.Comments[idx].UserID != userID {
		return nil, apperror.Forbidden("user not authorized to delete this comment")
	}

	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: removing comment %s: %w", commentID, err)
	}

	return post.Comments, nil
}
