package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/skincheck/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/skincheck/internal/common"
	"github.com/dmitrijs2005/skincheck/internal/dbx"
	"github.com/dmitrijs2005/skincheck/internal/logging"
)

// Store persists the single session record.
//
// Load returns (nil, nil) when nothing is stored or the stored record cannot
// be decoded; it returns an error only when storage itself fails.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the session as JSON under common.SessionStorageKey in the
// metadata table.
type SQLiteStore struct {
	db     *sql.DB
	logger logging.Logger
}

func NewSQLiteStore(db *sql.DB, logger logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, logger: logger}
}

func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	raw, err := metadata.NewSQLiteRepository(s.db).Get(ctx, common.SessionStorageKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn(ctx, "stored session is unreadable, ignoring it", "error", err)
		return nil, nil
	}
	if err := sess.Validate(); err != nil {
		s.logger.Warn(ctx, "stored session has no access token, ignoring it")
		return nil, nil
	}
	return &sess, nil
}

// Save rejects a session without an access token with ErrInvalidSession,
// since Load would never return it.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return metadata.NewSQLiteRepository(tx).Set(ctx, common.SessionStorageKey, data)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(s.db).Delete(ctx, common.SessionStorageKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
