package model

import "time"

// Post is a feed entry authored by a user.
//
// DENORMALIZED AUTHOR FIELDS:
// Name and AvatarURL are copied from the User at creation time rather than
// joined on every read. The feed renders many posts at once and author
// details are immutable enough that a stale copy is acceptable — this is the
// classic document-store trade of write-time duplication for read-time speed.
//
// Likes and Comments are embedded ordered lists (newest first), stored as
// JSON on the post row and rewritten whole on every mutation, exactly like
// Profile.Experience.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	Text      string    `json:"text"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Like records that a user liked a post. At most one Like per user per post;
// the service enforces this by scanning the list before inserting.
type Like struct {
	UserID string `json:"user"`
}

// Comment is a reply embedded in a post, with the author's name and avatar
// denormalized the same way as on Post.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
