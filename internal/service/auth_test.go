package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/devconnector/internal/apperror"
	"github.com/sakif/devconnector/internal/auth"
	"github.com/sakif/devconnector/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake (not a mock framework) keeps these tests easy to read
// — you can see exactly what the fake does.
type fakeUserRepo struct {
	users   map[string]*model.User // keyed by ID
	byEmail map[string]*model.User
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.Conflict("user already exists")
	}
	user.ID = xid.New().String()
	user.CreatedAt = time.Now().UTC()
	stored := *user
	f.users[user.ID] = &stored
	f.byEmail[user.Email] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	result := *u
	return &result, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	delete(f.byEmail, u.Email)
	delete(f.users, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// newTestAuthService wires an AuthService with fake storage. bcrypt cost 4
// is the minimum — keeps the hashing tests fast.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(repo, testTokenService(t), auth.NewPasswordServiceForTest(4), testLogger())
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_Success(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	result, err := svc.Register(context.Background(), "tarun", "tk1234@gmail.com", "123456")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if result.Token == "" {
		t.Fatal("Register() returned empty token")
	}
	if result.User.ID == "" {
		t.Error("User.ID should be set after create")
	}
	if result.User.Email != "tk1234@gmail.com" {
		t.Errorf("User.Email = %q, want %q", result.User.Email, "tk1234@gmail.com")
	}
	if result.User.AvatarURL == "" {
		t.Error("User.AvatarURL should be derived from the email")
	}
	// The stored hash must not be the plaintext password
	if result.User.PasswordHash == "123456" {
		t.Error("password was stored in plaintext")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "first", "dup@example.com", "123456"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := svc.Register(ctx, "second", "dup@example.com", "654321")
	if err == nil {
		t.Fatal("Register() should reject a duplicate email")
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
}

func TestRegister_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	result, err := svc.Register(ctx, "casey", "  Casey@Example.COM ", "123456")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if result.User.Email != "casey@example.com" {
		t.Errorf("Email = %q, want lowercased and trimmed", result.User.Email)
	}

	// A differently-cased spelling of the same address is still a duplicate
	_, err = svc.Register(ctx, "casey2", "CASEY@example.com", "123456")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("error = %v, want ErrConflict for same address in different case", err)
	}
}

func TestRegister_TokenIsValid(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())
	tokens := testTokenService(t)

	result, err := svc.Register(context.Background(), "tok", "tok@example.com", "123456")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	userID, err := tokens.Validate(result.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != result.User.ID {
		t.Errorf("token subject = %q, want %q", userID, result.User.ID)
	}
}

func TestRegister_RepositoryError(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("database is on fire")
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "x", "x@example.com", "123456")
	if err == nil {
		t.Fatal("Register() should propagate repository errors")
	}
	if errors.Is(err, apperror.ErrConflict) {
		t.Error("an infrastructure failure is not a conflict")
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	result, err := svc.Login(ctx, "alice@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token == "" {
		t.Error("Login() returned empty token")
	}
	if result.User.ID != registered.User.ID {
		t.Errorf("User.ID = %q, want %q", result.User.ID, registered.User.ID)
	}
}

// TestLogin_FailuresAreIndistinguishable checks that an unknown email and a
// wrong password produce identical errors, so a caller cannot probe which
// addresses have accounts.
func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "bob", "bob@example.com", "correct-pass"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, unknownEmailErr := svc.Login(ctx, "nobody@example.com", "whatever")
	_, wrongPasswordErr := svc.Login(ctx, "bob@example.com", "wrong-pass")

	if unknownEmailErr == nil || wrongPasswordErr == nil {
		t.Fatal("both login failures should error")
	}
	if !errors.Is(unknownEmailErr, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", unknownEmailErr)
	}
	if !errors.Is(wrongPasswordErr, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", wrongPasswordErr)
	}
	if unknownEmailErr.Error() != wrongPasswordErr.Error() {
		t.Errorf("failure messages differ: %q vs %q", unknownEmailErr, wrongPasswordErr)
	}
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "carol", "carol@example.com", "pass-word"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := svc.Login(ctx, "Carol@Example.com", "pass-word"); err != nil {
		t.Errorf("Login() with different email case error = %v", err)
	}
}

// =========================================================================
// CurrentUser TESTS
// =========================================================================

func TestCurrentUser_Found(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(t, repo)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "dave", "dave@example.com", "123456")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	user, err := svc.CurrentUser(ctx, registered.User.ID)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user.Email != "dave@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "dave@example.com")
	}
}

func TestCurrentUser_EmptyID(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	if _, err := svc.CurrentUser(context.Background(), ""); err == nil {
		t.Fatal("CurrentUser() should error on empty ID")
	}
}

func TestCurrentUser_NotFound(t *testing.T) {
	svc := newTestAuthService(t, newFakeUserRepo())

	_, err := svc.CurrentUser(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
