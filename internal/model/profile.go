package model

import "time"

// Profile holds a user's public career profile. There is at most one Profile
// per User — creation is an upsert keyed by UserID.
//
// Name and AvatarURL belong to the owning User; the repository fills them in
// on reads (a JOIN) so API responses can show who a profile belongs to
// without a second lookup. They are never written through this struct.
//
// Experience, Education and Social are embedded documents: they live as JSON
// columns on the profile row and are mutated read-modify-write — fetch the
// profile, change the slice in memory, write the whole profile back. Two
// concurrent writers of the same profile can overwrite each other; that is
// an accepted limitation of the document model, not a guarantee we defend.
type Profile struct {
	UserID         string       `json:"user"`
	Name           string       `json:"name"`
	AvatarURL      string       `json:"avatar"`
	Status         string       `json:"status"`
	Skills         []string     `json:"skills"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	GitHubUsername string       `json:"githubusername,omitempty"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Social         SocialLinks  `json:"social"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// Experience is a single work-history entry. Entries are ordered newest
// first — new entries are inserted at the front of Profile.Experience.
//
// To is a pointer because "still working here" is represented by its absence
// (plus Current=true), not by a zero time that would serialize as year 1.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is a single education entry, parallel in shape and ordering to
// Experience.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// SocialLinks is the fixed set of social profile URLs. A fixed struct (not a
// map) keeps the document shape explicit — unknown platforms are rejected at
// decode time instead of silently stored.
type SocialLinks struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}
