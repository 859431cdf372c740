package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"craftlab.ai/internal/crafting/catalogs"
	"craftlab.ai/internal/crafting/resources"
)

// SQLiteStore keeps stocked resources and their amounts. The lab never
// writes to it; callers take a Snapshot and match against that.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

// Entry is one stock row.
type Entry struct {
	Spec      resources.ResourceSpec
	Amount    int64
	UpdatedAt time.Time
}

func OpenSQLite(path string, logger *log.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[inventory] ", log.LstdFlags)
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS stock (
			resource_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			class_token TEXT NOT NULL,
			stats_json TEXT NOT NULL,
			first_seen TEXT,
			amount INTEGER NOT NULL CHECK (amount >= 0),
			updated_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_stock_class ON stock(class_token);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Put stores r with the given amount, replacing any previous row.
func (s *SQLiteStore) Put(ctx context.Context, r *resources.KnownResource, amount int64) error {
	if r == nil || r.ID <= 0 {
		return fmt.Errorf("put: resource without id")
	}
	if amount < 0 {
		return fmt.Errorf("put %d: negative amount %d", r.ID, amount)
	}
	spec := resources.Spec(r)
	statsJSON, err := json.Marshal(spec.Stats)
	if err != nil {
		return err
	}
	var firstSeen any
	if !r.FirstSeen.IsZero() {
		firstSeen = r.FirstSeen.UTC().Format(time.RFC3339)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO stock(resource_id,name,class_token,stats_json,first_seen,amount,updated_at)
		 VALUES(?,?,?,?,?,?,?)
		 ON CONFLICT(resource_id) DO UPDATE SET
		   name=excluded.name,
		   class_token=excluded.class_token,
		   stats_json=excluded.stats_json,
		   first_seen=excluded.first_seen,
		   amount=excluded.amount,
		   updated_at=excluded.updated_at`,
		r.ID, spec.Name, spec.Class, string(statsJSON), firstSeen, amount, nowString())
	return err
}

// SetAmount changes the amount of an already stocked resource.
func (s *SQLiteStore) SetAmount(ctx context.Context, id, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("set %d: negative amount %d", id, amount)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE stock SET amount=?, updated_at=? WHERE resource_id=?`, amount, nowString(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM stock WHERE resource_id=?`, id)
	return err
}

// AmountOf looks up one resource. ok is false when it is not stocked.
func (s *SQLiteStore) AmountOf(ctx context.Context, id int64) (n int64, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT amount FROM stock WHERE resource_id=?`, id).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (s *SQLiteStore) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT resource_id,name,class_token,stats_json,first_seen,amount,updated_at FROM stock ORDER BY resource_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e         Entry
			statsJSON string
			firstSeen sql.NullString
			updatedAt string
		)
		if err := rows.Scan(&e.Spec.ID, &e.Spec.Name, &e.Spec.Class, &statsJSON, &firstSeen, &e.Amount, &updatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(statsJSON), &e.Spec.Stats); err != nil {
			return nil, fmt.Errorf("stock %d: stats: %w", e.Spec.ID, err)
		}
		if firstSeen.Valid && firstSeen.String != "" {
			if t, err := time.Parse(time.RFC3339, firstSeen.String); err == nil {
				e.Spec.FirstSeen = t
			}
		}
		e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Snapshot reads every amount into an in-memory Index.
func (s *SQLiteStore) Snapshot(ctx context.Context) (Map, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT resource_id, amount FROM stock`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := Map{}
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		m[id] = n
	}
	return m, rows.Err()
}

// Resources resolves every stocked resource against reg. Rows whose class is
// unknown or whose stats no longer fit are logged and skipped.
func (s *SQLiteStore) Resources(ctx context.Context, reg *catalogs.Registry) ([]*resources.KnownResource, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*resources.KnownResource, 0, len(entries))
	for _, e := range entries {
		r, err := e.Spec.Resolve(reg)
		if err != nil {
			s.logger.Printf("skip stock %d: %v", e.Spec.ID, err)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// RecordTaxonomy stores the digest of the taxonomy the stock was written
// against.
func (s *SQLiteStore) RecordTaxonomy(ctx context.Context, digest string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta(key,value) VALUES('taxonomy_digest',?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, digest)
	return err
}

// TaxonomyDigest returns the recorded digest, or "" if none was recorded.
func (s *SQLiteStore) TaxonomyDigest(ctx context.Context) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key='taxonomy_digest'`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

func nowString() string { return time.Now().UTC().Format(time.RFC3339Nano) }
