package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/foodreview-demo/admin/internal/db"
	"github.com/foodreview-demo/admin/internal/util"
)

func newTestStore(t *testing.T, key []byte) *Store {
	t.Helper()
	sqdb, err := db.Open("sqlite", filepath.Join(t.TempDir(), "state.db"), "", 2, 1, time.Minute)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { sqdb.Close() })
	// Apply the real migration so these tests catch any drift between the
	// shipped schema and the statements below.
	if err := db.ApplyMigrationFile(sqdb, filepath.Join("..", "..", "migrations", "001_init.sql")); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	return New(sqdb, key, "admin_token", "sqlite")
}

func TestTokenRoundTrip(t *testing.T) {
	s := newTestStore(t, util.Derive32ByteKey("test-secret"))
	ctx := context.Background()

	tok, err := s.Token(ctx)
	if err != nil || tok != "" {
		t.Fatalf("empty store must yield empty token: %q %v", tok, err)
	}

	if err := s.SetToken(ctx, "session-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	tok, err = s.Token(ctx)
	if err != nil || tok != "session-abc" {
		t.Fatalf("unexpected token: %q %v", tok, err)
	}

	// Overwrite replaces, it does not duplicate.
	if err := s.SetToken(ctx, "session-def"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	tok, _ = s.Token(ctx)
	if tok != "session-def" {
		t.Fatalf("unexpected token after overwrite: %q", tok)
	}
}

func TestClearToken(t *testing.T) {
	s := newTestStore(t, util.Derive32ByteKey("test-secret"))
	ctx := context.Background()

	if err := s.SetToken(ctx, "session-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken: %v", err)
	}
	tok, err := s.Token(ctx)
	if err != nil || tok != "" {
		t.Fatalf("token survived clear: %q %v", tok, err)
	}

	// Clearing an already-empty slot is not an error.
	if err := s.ClearToken(ctx); err != nil {
		t.Fatalf("ClearToken on empty store: %v", err)
	}
}

func TestRotatedKeyReadsAsNoToken(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, util.Derive32ByteKey("old-secret"))
	if err := s.SetToken(ctx, "session-abc"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	rotated := New(s.db, util.Derive32ByteKey("new-secret"), "admin_token", "sqlite")
	tok, err := rotated.Token(ctx)
	if err != nil {
		t.Fatalf("Token after key rotation: %v", err)
	}
	if tok != "" {
		t.Fatalf("undecryptable state must read as no token, got %q", tok)
	}
}
