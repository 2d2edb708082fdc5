package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/model"
)

func newTestProfile(userID string) *model.Profile {
	return &model.Profile{
		UserID: userID,
		Status: "Developer",
		Skills: []string{"Go", "SQL"},
		Social: model.SocialLinks{Twitter: "https://twitter.com/dev"},
	}
}

func TestProfileUpsert_InsertThenGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "alice", "alice@example.com")
	p := db.Profiles()

	if err := p.Upsert(context.Background(), newTestProfile(user.ID)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := p.GetByUserID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if got.Status != "Developer" {
		t.Errorf("Status = %q, want %q", got.Status, "Developer")
	}
	if len(got.Skills) != 2 || got.Skills[0] != "Go" {
		t.Errorf("Skills = %v, want [Go SQL]", got.Skills)
	}
	// Owner fields come from the users join
	if got.Name != "alice" {
		t.Errorf("Name = %q, want %q (joined from users)", got.Name, "alice")
	}
	if got.AvatarURL == "" {
		t.Error("AvatarURL should be joined from users")
	}
	if got.Social.Twitter != "https://twitter.com/dev" {
		t.Errorf("Social.Twitter = %q", got.Social.Twitter)
	}
}

func TestProfileUpsert_SecondWriteUpdatesSameRow(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "bob", "bob@example.com")
	p := db.Profiles()
	ctx := context.Background()

	if err := p.Upsert(ctx, newTestProfile(user.ID)); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	updated := newTestProfile(user.ID)
	updated.Status = "Senior Developer"
	updated.Skills = []string{"Go"}
	if err := p.Upsert(ctx, updated); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	// Exactly one profile per user, with the new fields
	all, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("List() returned %d profiles, want 1 (upsert, not duplicate)", len(all))
	}
	if all[0].Status != "Senior Developer" {
		t.Errorf("Status = %q, want %q", all[0].Status, "Senior Developer")
	}
}

func TestProfileUpsert_PreservesEmbeddedLists(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "carol", "carol@example.com")
	p := db.Profiles()
	ctx := context.Background()

	if err := p.Upsert(ctx, newTestProfile(user.ID)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Add an experience entry via the whole-document Update
	profile, err := p.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	profile.Experience = []model.Experience{{
		ID:      "exp-1",
		Title:   "Eng",
		Company: "Acme",
		From:    time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	if err := p.Update(ctx, profile); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// A later scalar upsert must not clobber the experience list
	if err := p.Upsert(ctx, newTestProfile(user.ID)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := p.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(got.Experience) != 1 || got.Experience[0].Title != "Eng" {
		t.Errorf("Experience after upsert = %+v, want the saved entry", got.Experience)
	}
}

func TestProfileUpdate_RoundTripsLists(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "dave", "dave@example.com")
	p := db.Profiles()
	ctx := context.Background()

	if err := p.Upsert(ctx, newTestProfile(user.ID)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	profile, err := p.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}

	to := time.Date(2022, 6, 30, 0, 0, 0, 0, time.UTC)
	profile.Experience = []model.Experience{
		{ID: "e2", Title: "Senior", Company: "Beta", From: time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), Current: true},
		{ID: "e1", Title: "Junior", Company: "Alpha", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), To: &to},
	}
	profile.Education = []model.Education{
		{ID: "d1", School: "State", Degree: "BSc", FieldOfStudy: "CS", From: time.Date(2016, 9, 1, 0, 0, 0, 0, time.UTC)},
	}

	if err := p.Update(ctx, profile); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := p.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(got.Experience) != 2 {
		t.Fatalf("Experience length = %d, want 2", len(got.Experience))
	}
	// Order is the JSON array order — newest first as written
	if got.Experience[0].ID != "e2" || got.Experience[1].ID != "e1" {
		t.Errorf("Experience order = [%s %s], want [e2 e1]", got.Experience[0].ID, got.Experience[1].ID)
	}
	if got.Experience[1].To == nil || !got.Experience[1].To.Equal(to) {
		t.Errorf("Experience[1].To = %v, want %v", got.Experience[1].To, to)
	}
	if len(got.Education) != 1 || got.Education[0].FieldOfStudy != "CS" {
		t.Errorf("Education = %+v", got.Education)
	}
}

func TestProfileUpdate_MissingProfile(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db.Users(), "eve", "eve@example.com")

	err := db.Profiles().Update(context.Background(), newTestProfile(user.ID))
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() on missing profile error = %v, want ErrNotFound", err)
	}
}

func TestProfileGetByUserID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Profiles().GetByUserID(context.Background(), "no-such-user")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByUserID() error = %v, want ErrNotFound", err)
	}
}

func TestProfileList_Empty(t *testing.T) {
	db := newTestDB(t)

	profiles, err := db.Profiles().List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if profiles == nil {
		t.Error("List() should return an empty slice, not nil (serializes as [])")
	}
	if len(profiles) != 0 {
		t.Errorf("List() length = %d, want 0", len(profiles))
	}
}

func TestProfileDelete_MissingIsNotAnError(t *testing.T) {
	db := newTestDB(t)

	// The cascading account delete calls this unconditionally.
	if err := db.Profiles().Delete(context.Background(), "no-such-user"); err != nil {
		t.Errorf("Delete() on missing profile error = %v, want nil", err)
	}
}
