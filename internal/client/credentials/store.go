// Package credentials keeps the bearer credential in the local client
// database and decodes it for display.
package credentials

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/farmdash/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/farmdash/internal/common"
)

const savedAtKey = "token_saved_at"

// Store reads and writes the credential under common.TokenStorageKey. Every
// Token call goes to storage, so a login or logout is visible to the next
// request without restarting anything.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo(q metadata.Querier) metadata.Repository {
	return metadata.NewSQLiteRepository(q)
}

// update runs fn against a repository bound to one transaction. The keys fn
// writes are committed together, or not at all when fn fails or panics.
func (s *Store) update(ctx context.Context, fn func(ctx context.Context, repo metadata.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, s.repo(tx))
}

// Token returns the stored credential, or "" when there is none.
func (s *Store) Token(ctx context.Context) (string, error) {
	v, err := s.repo(s.db).Get(ctx, common.TokenStorageKey)
	if err != nil {
		return "", fmt.Errorf("read credential: %w", err)
	}
	return strings.TrimSpace(string(v)), nil
}

// Save stores token together with the time it was saved.
func (s *Store) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("save credential: %w", common.ErrInvalidToken)
	}
	return s.update(ctx, func(ctx context.Context, repo metadata.Repository) error {
		if err := repo.Set(ctx, common.TokenStorageKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, savedAtKey, []byte(s.now().UTC().Format(time.RFC3339)))
	})
}

// Clear removes the credential. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo(s.db).Delete(ctx, common.TokenStorageKey, savedAtKey); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// SavedAt reports when the current credential was stored. ok is false when
// nothing is stored.
func (s *Store) SavedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	v, err := s.repo(s.db).Get(ctx, savedAtKey)
	if err != nil || v == nil {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false, nil
	}
	return t, true, nil
}
