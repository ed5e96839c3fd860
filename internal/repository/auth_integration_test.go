//go:build integration

package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sessiongate/sessiongate/internal/testutil"
)

// ============================================================================
// Session Repository Integration Tests
// ============================================================================

func TestIntegrationValidateSession_Valid(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Ann", "Lee")
	seeded := testutil.SeedSession(ctx, t, repo.Pool(), user.ID, time.Hour)

	sess, got, err := repo.ValidateSession(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("ValidateSession failed: %v", err)
	}

	if sess.ID != seeded.ID {
		t.Errorf("session ID mismatch: got %q, want %q", sess.ID, seeded.ID)
	}
	if sess.UserID != user.ID {
		t.Errorf("session UserID mismatch: got %q, want %q", sess.UserID, user.ID)
	}
	if got.ID != user.ID {
		t.Errorf("user ID mismatch: got %q, want %q", got.ID, user.ID)
	}
	if got.FirstName != "Ann" || got.LastName != "Lee" {
		t.Errorf("user name mismatch: got %q %q", got.FirstName, got.LastName)
	}
}

func TestIntegrationValidateSession_Expired(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Bo", "Kim")
	seeded := testutil.SeedSession(ctx, t, repo.Pool(), user.ID, -time.Hour)

	_, _, err := repo.ValidateSession(ctx, seeded.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for expired session, got: %v", err)
	}
}

func TestIntegrationValidateSession_Unknown(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	_, _, err := repo.ValidateSession(ctx, "11111111-2222-3333-4444-555555555555")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got: %v", err)
	}
}

func TestIntegrationValidateSession_MalformedID(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	// A tampered cookie value must read as "no session", not a DB error.
	_, _, err := repo.ValidateSession(ctx, "not-a-uuid")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound for malformed id, got: %v", err)
	}
}

func TestIntegrationCreateSession(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Cy", "Ito")

	sess, err := repo.CreateSession(ctx, user.ID, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if sess.ID == "" {
		t.Error("expected session ID to be generated")
	}
	if sess.UserID != user.ID {
		t.Errorf("UserID mismatch: got %q, want %q", sess.UserID, user.ID)
	}

	// Expiry should land roughly 7 days out
	want := time.Now().Add(7 * 24 * time.Hour)
	if diff := sess.ExpiresAt.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt off by %s", diff)
	}

	// Round-trip through validation
	_, _, err = repo.ValidateSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("ValidateSession after create failed: %v", err)
	}
}

func TestIntegrationDeleteSession(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Di", "Sol")
	seeded := testutil.SeedSession(ctx, t, repo.Pool(), user.ID, time.Hour)

	if err := repo.DeleteSession(ctx, seeded.ID); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	_, _, err := repo.ValidateSession(ctx, seeded.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after delete, got: %v", err)
	}

	// Deleting again is not an error
	if err := repo.DeleteSession(ctx, seeded.ID); err != nil {
		t.Errorf("DeleteSession (repeat) failed: %v", err)
	}
}

func TestIntegrationDeleteExpiredSessions(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Ed", "Roy")
	live := testutil.SeedSession(ctx, t, repo.Pool(), user.ID, time.Hour)
	testutil.SeedSession(ctx, t, repo.Pool(), user.ID, -time.Hour)
	testutil.SeedSession(ctx, t, repo.Pool(), user.ID, -time.Minute)

	deleted, err := repo.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted sessions, got %d", deleted)
	}

	// Live session survives
	if _, _, err := repo.ValidateSession(ctx, live.ID); err != nil {
		t.Errorf("live session should survive sweep: %v", err)
	}
}

// ============================================================================
// Credentials Repository Integration Tests
// ============================================================================

func TestIntegrationCreateUserWithCredentials(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	userID, err := repo.CreateUserWithCredentials(ctx, "Ann", "Lee", "Ann@Example.com", "argon2-hash")
	if err != nil {
		t.Fatalf("CreateUserWithCredentials failed: %v", err)
	}
	if userID == "" {
		t.Fatal("expected user ID to be returned")
	}

	user, err := repo.GetUserByID(ctx, userID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if user.FirstName != "Ann" || user.LastName != "Lee" {
		t.Errorf("user name mismatch: got %q %q", user.FirstName, user.LastName)
	}

	// Email is stored lowercased
	creds, err := repo.GetCredentialsByEmail(ctx, "ann@example.com")
	if err != nil {
		t.Fatalf("GetCredentialsByEmail failed: %v", err)
	}
	if creds.UserID != userID {
		t.Errorf("credentials UserID mismatch: got %q, want %q", creds.UserID, userID)
	}
	if creds.Email != "ann@example.com" {
		t.Errorf("expected lowercased email, got %q", creds.Email)
	}
}

func TestIntegrationCreateUserWithCredentials_DuplicateEmail(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	if _, err := repo.CreateUserWithCredentials(ctx, "Ann", "Lee", "dup@example.com", "hash-1"); err != nil {
		t.Fatalf("CreateUserWithCredentials (first) failed: %v", err)
	}

	// Same address in a different case is still a duplicate
	_, err := repo.CreateUserWithCredentials(ctx, "Bo", "Kim", "DUP@example.com", "hash-2")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}

	// The failed sign-up must not leave an orphaned user row behind
	var count int
	if err := repo.Pool().QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user row after duplicate sign-up, got %d", count)
	}
}

func TestIntegrationGetCredentialsByEmail_NotFound(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	_, err := repo.GetCredentialsByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("expected ErrCredentialsNotFound, got: %v", err)
	}
}

func TestIntegrationGetCredentialsByEmail_CaseInsensitive(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	if _, err := repo.CreateUserWithCredentials(ctx, "Ann", "Lee", "Mixed.Case@Example.com", "hash"); err != nil {
		t.Fatalf("CreateUserWithCredentials failed: %v", err)
	}

	for _, email := range []string{"mixed.case@example.com", "MIXED.CASE@EXAMPLE.COM", "Mixed.Case@Example.com"} {
		creds, err := repo.GetCredentialsByEmail(ctx, email)
		if err != nil {
			t.Errorf("GetCredentialsByEmail(%q) failed: %v", email, err)
			continue
		}
		if !strings.EqualFold(creds.Email, email) {
			t.Errorf("email mismatch for lookup %q: got %q", email, creds.Email)
		}
	}
}

func TestIntegrationGetUserByID_NotFound(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	_, err := repo.GetUserByID(ctx, "11111111-2222-3333-4444-555555555555")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationSessionCascadeOnUserDelete(t *testing.T) {
	ctx, repo := newAuthTestEnv(t)

	user := testutil.SeedUser(ctx, t, repo.Pool(), "Fay", "Oda")
	seeded := testutil.SeedSession(ctx, t, repo.Pool(), user.ID, time.Hour)

	if _, err := repo.Pool().Exec(ctx, `DELETE FROM users WHERE id = $1`, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	_, _, err := repo.ValidateSession(ctx, seeded.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after user delete, got: %v", err)
	}
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newAuthTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetAuthSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset auth schema: %v", err)
	}

	return ctx, repo
}
