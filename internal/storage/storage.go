// Package storage persists the console's small local state: the opaque
// backend session token, stored encrypted under a well-known key. It is the
// Go counterpart of the browser localStorage slot the backend contract
// assumes, and is never a source of truth for backend records.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/foodreview-demo/admin/internal/util"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db         *sql.DB
	encryptKey []byte
	tokenKey   string
	positional bool
}

// New wraps the state database. encryptKey must be a 32-byte AES key;
// positional selects $1-style placeholders for postgres drivers.
func New(db *sql.DB, encryptKey []byte, tokenKey, driver string) *Store {
	return &Store{
		db:         db,
		encryptKey: encryptKey,
		tokenKey:   tokenKey,
		positional: strings.Contains(strings.ToLower(driver), "pgx") || strings.Contains(strings.ToLower(driver), "postgres"),
	}
}

// Token returns the stored session token, or "" when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	raw, err := s.get(ctx, s.tokenKey)
	if err == ErrNotFound {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	token, err := util.DecryptString(s.encryptKey, raw)
	if err != nil {
		// Undecryptable state (rotated key, corrupt row) is the same as no
		// token: the caller re-authenticates.
		return "", nil
	}
	return token, nil
}

func (s *Store) SetToken(ctx context.Context, token string) error {
	enc, err := util.EncryptString(s.encryptKey, token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	return s.set(ctx, s.tokenKey, enc)
}

func (s *Store) ClearToken(ctx context.Context) error {
	return s.delete(ctx, s.tokenKey)
}

// The column is called name, not key: key is a reserved word in MySQL and
// the schema has to work on all three supported drivers.
func (s *Store) get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT value FROM settings WHERE name=?`), key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Store) set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM settings WHERE name=?`), key); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, s.q(`INSERT INTO settings(name,value,updated_at) VALUES(?,?,?)`), key, value, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM settings WHERE name=?`), key)
	return err
}

// q rewrites ? placeholders to $n for drivers that require positional args.
func (s *Store) q(query string) string {
	if !s.positional {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
