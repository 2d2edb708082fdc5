package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
	"github.com/sakif/devconnector/internal/repository"
)

// ProfileDB implements repository.ProfileRepository.
//
// The embedded lists (skills, experience, education, social) are JSON
// columns. marshalDoc/unmarshalDoc below do the translation; everything else
// is ordinary database/sql.
type ProfileDB struct {
	conn *sql.DB
}

var _ repository.ProfileRepository = (*ProfileDB)(nil)

// Upsert creates the profile row if the user has none, otherwise updates the
// scalar fields — leaving the experience/education columns untouched, the
// same way a document store's $set on named fields leaves sibling arrays
// alone. The UNIQUE primary key on user_id guarantees "at most one profile
// per user" no matter how many times this runs.
func (p *ProfileDB) Upsert(ctx context.Context, profile *model.Profile) error {
	skills, err := marshalDoc(profile.Skills)
	if err != nil {
		return fmt.Errorf("sqlite: encoding skills: %w", err)
	}
	social, err := marshalDoc(profile.Social)
	if err != nil {
		return fmt.Errorf("sqlite: encoding social links: %w", err)
	}

	now := time.Now().UTC()
	_, err = p.conn.ExecContext(ctx,
		`INSERT INTO profiles (user_id, status, skills, company, website, location,
		                       bio, github_username, social, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   status          = excluded.status,
		   skills          = excluded.skills,
		   company         = excluded.company,
		   website         = excluded.website,
		   location        = excluded.location,
		   bio             = excluded.bio,
		   github_username = excluded.github_username,
		   social          = excluded.social,
		   updated_at      = excluded.updated_at`,
		profile.UserID,
		profile.Status,
		skills,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GitHubUsername,
		social,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("sqlite: upserting profile for user %s: %w", profile.UserID, err)
	}

	return nil
}

// Update rewrites the whole profile document, embedded lists included. This
// is the write half of every read-modify-write list mutation.
func (p *ProfileDB) Update(ctx context.Context, profile *model.Profile) error {
	skills, err := marshalDoc(profile.Skills)
	if err != nil {
		return fmt.Errorf("sqlite: encoding skills: %w", err)
	}
	experience, err := marshalDoc(profile.Experience)
	if err != nil {
		return fmt.Errorf("sqlite: encoding experience: %w", err)
	}
	education, err := marshalDoc(profile.Education)
	if err != nil {
		return fmt.Errorf("sqlite: encoding education: %w", err)
	}
	social, err := marshalDoc(profile.Social)
	if err != nil {
		return fmt.Errorf("sqlite: encoding social links: %w", err)
	}

	profile.UpdatedAt = time.Now().UTC()
	res, err := p.conn.ExecContext(ctx,
		`UPDATE profiles SET
		   status = ?, skills = ?, company = ?, website = ?, location = ?,
		   bio = ?, github_username = ?, experience = ?, education = ?,
		   social = ?, updated_at = ?
		 WHERE user_id = ?`,
		profile.Status,
		skills,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GitHubUsername,
		experience,
		education,
		social,
		profile.UpdatedAt,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile for user %s: %w", profile.UserID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperror.NotFound("profile", profile.UserID)
	}

	return nil
}

const profileColumns = `
	p.user_id, u.name, u.avatar_url, p.status, p.skills, p.company,
	p.website, p.location, p.bio, p.github_username, p.experience,
	p.education, p.social, p.created_at, p.updated_at`

// GetByUserID retrieves a profile with the owner's name and avatar joined in.
// Returns apperror.ErrNotFound if the user has no profile.
func (p *ProfileDB) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	row := p.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ?`,
		userID,
	)

	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting profile for user %s: %w", userID, err)
	}

	return profile, nil
}

// List returns every profile with owner name/avatar, newest first.
func (p *ProfileDB) List(ctx context.Context) ([]model.Profile, error) {
	rows, err := p.conn.QueryContext(ctx,
		`SELECT `+profileColumns+`
		 FROM profiles p JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing profiles: %w", err)
	}
	defer rows.Close()

	// Start with an empty (non-nil) slice so an empty table serializes as
	// [] rather than null.
	profiles := []model.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating profiles: %w", err)
	}

	return profiles, nil
}

// Delete removes the user's profile. Missing profiles are not an error —
// the cascading account delete calls this unconditionally.
func (p *ProfileDB) Delete(ctx context.Context, userID string) error {
	if _, err := p.conn.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("sqlite: deleting profile for user %s: %w", userID, err)
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows so scanProfile works for single
// and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(s scanner) (*model.Profile, error) {
	var (
		profile    model.Profile
		skills     []byte
		experience []byte
		education  []byte
		social     []byte
	)

	err := s.Scan(
		&profile.UserID,
		&profile.Name,
		&profile.AvatarURL,
		&profile.Status,
		&skills,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.GitHubUsername,
		&experience,
		&education,
		&social,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalDoc(skills, &profile.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	if err := unmarshalDoc(experience, &profile.Experience); err != nil {
		return nil, fmt.Errorf("decoding experience: %w", err)
	}
	if err := unmarshalDoc(education, &profile.Education); err != nil {
		return nil, fmt.Errorf("decoding education: %w", err)
	}
	if err := unmarshalDoc(social, &profile.Social); err != nil {
		return nil, fmt.Errorf("decoding social links: %w", err)
	}

	if profile.Skills == nil {
		profile.Skills = []string{}
	}
	if profile.Experience == nil {
		profile.Experience = []model.Experience{}
	}
	if profile.Education == nil {
		profile.Education = []model.Education{}
	}

	return &profile, nil
}

// marshalDoc encodes an embedded document for storage in a TEXT column.
func marshalDoc(v any) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalDoc decodes an embedded document column, treating an empty column
// as an empty document.
func unmarshalDoc(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
