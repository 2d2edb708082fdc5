package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// RepoLister fetches a GitHub user's public repositories. Declared here (the
// consumer side) so tests can substitute a fake without touching the real
// client.
type RepoLister interface {
	Repos(ctx context.Context, username string) (json.RawMessage, error)
}

// ProfileService handles profile upserts, embedded-list mutations, the
// cascading account delete, and the GitHub repo proxy.
//
// It holds the user and post repositories as well: profile reads join the
// owner's name/avatar (handled in the repository), and deleting an account
// must take the user's posts and user row down with the profile.
type ProfileService struct {
	profiles repository.ProfileRepository
	users    repository.UserRepository
	posts    repository.PostRepository
	github   RepoLister
	logger   *slog.Logger
}

// NewProfileService creates a ProfileService with all dependencies injected.
func NewProfileService(
	profiles repository.ProfileRepository,
	users repository.UserRepository,
	posts repository.PostRepository,
	github RepoLister,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		users:    users,
		posts:    posts,
		github:   github,
		logger:   logger,
	}
}

// ProfileInput carries the writable scalar fields of a profile. Skills
// arrives as the API's comma-separated string and is split here — the
// stored form is always the ordered list.
type ProfileInput struct {
	Status         string
	Skills         string
	Company        string
	Website        string
	Location       string
	Bio            string
	GitHubUsername string
	Social         model.SocialLinks
}

// Upsert creates or updates the caller's profile and returns the stored
// document. Running it twice for one user always leaves exactly one profile
// — the repository upserts on the user key. Embedded experience/education
// lists survive the update untouched.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	status := strings.TrimSpace(in.Status)
	if status == "" {
		return nil, apperror.ValidationFailed("status", "status is required")
	}

	skills := splitSkills(in.Skills)
	if len(skills) == 0 {
		return nil, apperror.ValidationFailed("skills", "skills is required")
	}

	profile := &model.Profile{
		UserID:         userID,
		Status:         status,
		Skills:         skills,
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Bio:            strings.TrimSpace(in.Bio),
		GitHubUsername: strings.TrimSpace(in.GitHubUsername),
		Social:         in.Social,
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: upserting profile for user %s: %w", userID, err)
	}

	s.logger.Info("profile upserted", slog.String("userID", userID))

	// Read the document back: the upsert doesn't know the join fields
	// (owner name/avatar) or the preserved experience/education lists.
	return s.GetByUserID(ctx, userID)
}

// GetByUserID returns the profile for a user, with owner name and avatar.
func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("user", "user ID is required")
	}

	return s.profiles.GetByUserID(ctx, userID)
}

// List returns all profiles, newest first.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		s.logger.Error("failed to list profiles", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/profile: listing profiles: %w", err)
	}
	return profiles, nil
}

// AddExperience prepends a work-history entry to the caller's profile and
// returns the updated document. A caller with no profile gets a clean
// not-found.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, exp model.Experience) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	exp.ID = xid.New().String()
	profile.Experience = append([]model.Experience{exp}, profile.Experience...)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: saving experience for user %s: %w", userID, err)
	}

	return profile, nil
}

// RemoveExperience deletes an entry by ID, preserving the order of the
// remainder. An unknown entry ID is a not-found, not a silent no-op.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Experience {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.NotFound("experience", entryID)
	}

	profile.Experience = append(profile.Experience[:idx], profile.Experience[idx+1:]...)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: removing experience for user %s: %w", userID, err)
	}

	return profile, nil
}

// AddEducation prepends an education entry, mirroring AddExperience.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, edu model.Education) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	edu.ID = xid.New().String()
	profile.Education = append([]model.Education{edu}, profile.Education...)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: saving education for user %s: %w", userID, err)
	}

	return profile, nil
}

// RemoveEducation deletes an education entry by ID.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID string) (*model.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i, e := range profile.Education {
		if e.ID == entryID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperror.NotFound("education", entryID)
	}

	profile.Education = append(profile.Education[:idx], profile.Education[idx+1:]...)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("service/profile: removing education for user %s: %w", userID, err)
	}

	return profile, nil
}

// DeleteAccount removes the caller's posts, profile, and user record, in
// that order. Not transactional: a failure partway leaves earlier deletions
// in place, which is acceptable — re-running the delete finishes the job.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.posts.DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("service/profile: deleting posts for user %s: %w", userID, err)
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service/profile: deleting profile for user %s: %w", userID, err)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("service/profile: deleting user %s: %w", userID, err)
	}

	s.logger.Info("account deleted", slog.String("userID", userID))
	return nil
}

// GitHubRepos proxies the user's five most recent public repositories.
func (s *ProfileService) GitHubRepos(ctx context.Context, username string) (json.RawMessage, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "GitHub username is required")
	}

	repos, err := s.github.Repos(ctx, username)
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// splitSkills turns the API's comma-separated skills string into the stored
// ordered list, dropping empty segments ("Go,,Rust" has two skills).
func splitSkills(csv string) []string {
	parts := strings.Split(csv, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}
