package tokens

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/fleshka4/quote-aggregator/internal/model"
)

const (
	lockTimeout    = 5 * time.Second
	lockRetryDelay = 50 * time.Millisecond
)

// Store persists tokens discovered on chain so that later process starts
// skip the network lookup.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	lock *flock.Flock
}

// Open opens or creates the sqlite store at path. Writes are serialized
// across processes through a file lock at lockPath.
func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create store directory")
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "sql.Open")
	}
	db.SetMaxOpenConns(1)

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS tokens (
			chain_id INTEGER NOT NULL,
			address TEXT NOT NULL,
			symbol TEXT NOT NULL,
			decimals INTEGER NOT NULL,
			name TEXT NOT NULL,
			coin_key TEXT NOT NULL,
			logo_uri TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (chain_id, address)
		);`,
	}
	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, errors.Wrap(err, "init store schema")
		}
	}

	return &Store{db: db, lock: flock.New(lockPath)}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put inserts or replaces tok.
func (s *Store) Put(ctx context.Context, tok model.TokenInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return errors.Wrap(err, "s.lock.TryLockContext")
	}
	if !locked {
		return errors.New("timeout acquiring token store lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tokens (chain_id, address, symbol, decimals, name, coin_key, logo_uri, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chain_id, address) DO UPDATE SET
			symbol=excluded.symbol,
			decimals=excluded.decimals,
			name=excluded.name,
			coin_key=excluded.coin_key,
			logo_uri=excluded.logo_uri,
			updated_at=excluded.updated_at
	`, tok.ChainID, tok.Address, tok.Symbol, tok.Decimals, tok.Name, tok.CoinKey, tok.LogoURI, time.Now().UTC().Unix())
	if err != nil {
		return errors.Wrap(err, "s.db.ExecContext")
	}
	return nil
}

// All returns every persisted token.
func (s *Store) All(ctx context.Context) ([]model.TokenInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT chain_id, address, symbol, decimals, name, coin_key, logo_uri FROM tokens")
	if err != nil {
		return nil, errors.Wrap(err, "s.db.QueryContext")
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var out []model.TokenInfo
	for rows.Next() {
		var tok model.TokenInfo
		if err := rows.Scan(&tok.ChainID, &tok.Address, &tok.Symbol, &tok.Decimals, &tok.Name, &tok.CoinKey, &tok.LogoURI); err != nil {
			return nil, errors.Wrap(err, "rows.Scan")
		}
		out = append(out, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows.Err")
	}
	return out, nil
}
