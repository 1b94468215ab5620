// Package store keeps named passages in SQLite. The passage itself is a
// compressed binary blob in a content-addressed store; the table holds its
// hash and the facts needed to list passages without loading them.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/versekit/core/cas"
	"github.com/FocuswithJustin/versekit/core/compress"
	"github.com/FocuswithJustin/versekit/core/errors"
	"github.com/FocuswithJustin/versekit/core/passage"
	"github.com/FocuswithJustin/versekit/core/sqlite"
	"github.com/FocuswithJustin/versekit/internal/logging"
)

// Injectable for tests.
var (
	now   = time.Now
	newID = uuid.NewString
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS passages (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		kind        TEXT NOT NULL,
		blake3      TEXT NOT NULL,
		compression TEXT NOT NULL,
		verses      INTEGER NOT NULL,
		ranges      INTEGER NOT NULL,
		created_at  INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS passages_name ON passages (name)`,
	`CREATE INDEX IF NOT EXISTS passages_blake3 ON passages (blake3)`,
}

// Record describes one saved passage.
type Record struct {
	ID          string
	Name        string
	Kind        passage.Kind
	Hash        string
	Compression compress.Type
	Verses      int
	Ranges      int
	CreatedAt   time.Time
}

// Store is safe for concurrent use.
type Store struct {
	db         *sql.DB
	blobs      *cas.Store
	compressor compress.Compressor
}

// Open opens or creates the database at dbPath and the blob store at blobDir.
func Open(ctx context.Context, dbPath, blobDir string, t compress.Type) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.NewIO("create database directory", dbPath, err)
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, errors.NewIO("open database", dbPath, err)
	}
	blobs, err := cas.NewStore(blobDir)
	if err != nil {
		db.Close()
		return nil, err
	}
	c, err := compress.New(t)
	if err != nil {
		db.Close()
		return nil, err
	}
	s, err := New(ctx, db, blobs, c)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the schema if needed.
func New(ctx context.Context, db *sql.DB, blobs *cas.Store, c compress.Compressor) (*Store, error) {
	if db == nil {
		return nil, errors.NewNull("db")
	}
	if blobs == nil {
		return nil, errors.NewNull("blobs")
	}
	if c == nil {
		return nil, errors.NewNull("compressor")
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "ping passage database")
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, errors.Wrap(err, "initialize passage schema")
		}
	}
	return &Store{db: db, blobs: blobs, compressor: c}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes p and returns its new record. Tally weights are not kept;
// a tally loads back with every verse at weight one.
func (s *Store) Save(ctx context.Context, p passage.Passage) (*Record, error) {
	if p == nil {
		return nil, errors.NewNull("passage")
	}
	blob, err := s.blobs.PutPassage(p, s.compressor)
	if err != nil {
		return nil, err
	}
	logging.CompressionEvent(ctx, blob.Compression.String(), blob.RawSize, blob.Size)

	rec := &Record{
		ID:          newID(),
		Name:        p.Name(),
		Kind:        p.Kind(),
		Hash:        blob.Hash,
		Compression: blob.Compression,
		Verses:      p.CountVerses(),
		Ranges:      p.CountRanges(),
		CreatedAt:   now().UTC().Truncate(time.Millisecond),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO passages (id, name, kind, blake3, compression, verses, ranges, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Kind.String(), rec.Hash, rec.Compression.String(),
		rec.Verses, rec.Ranges, rec.CreatedAt.UnixMilli())
	if err != nil {
		return nil, errors.Wrap(err, "insert passage")
	}
	logging.StoreEvent(ctx, "save", rec.ID, rec.Name, "blake3", rec.Hash, "verses", rec.Verses)
	return rec, nil
}

const selectRecord = `SELECT id, name, kind, blake3, compression, verses, ranges, created_at FROM passages`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec               Record
		kind, compression string
		created           int64
	)
	if err := row.Scan(&rec.ID, &rec.Name, &kind, &rec.Hash, &compression, &rec.Verses, &rec.Ranges, &created); err != nil {
		return nil, err
	}
	var err error
	if rec.Kind, err = passage.ParseKind(kind); err != nil {
		return nil, err
	}
	if rec.Compression, err = compress.ParseType(compression); err != nil {
		return nil, err
	}
	rec.CreatedAt = time.UnixMilli(created).UTC()
	return &rec, nil
}

// Get returns the record with the given ID without loading the passage.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectRecord+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("passage", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query passage")
	}
	return rec, nil
}

// Load returns the passage saved under id, built with its recorded kind.
func (s *Store) Load(ctx context.Context, id string) (passage.Passage, *Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return s.load(ctx, rec)
}

// LoadByName returns the most recently saved passage with the given name.
// Reference text is canonicalised first, so "gen 1 1-3" finds "Gen 1:1-3".
func (s *Store) LoadByName(ctx context.Context, name string) (passage.Passage, *Record, error) {
	if p, err := passage.Parse(name); err == nil {
		name = p.Name()
	}
	rec, err := scanRecord(s.db.QueryRowContext(ctx,
		selectRecord+` WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1`, name))
	if err == sql.ErrNoRows {
		return nil, nil, errors.NewNotFound("passage", name)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "query passage")
	}
	return s.load(ctx, rec)
}

func (s *Store) load(ctx context.Context, rec *Record) (passage.Passage, *Record, error) {
	p, err := s.blobs.GetPassage(rec.Hash, passage.WithKind(rec.Kind))
	if err != nil {
		return nil, nil, err
	}
	logging.StoreEvent(ctx, "load", rec.ID, rec.Name)
	return p, rec, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+` ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list passages")
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan passage")
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list passages")
	}
	return out, nil
}

// Delete removes a record. Its blob goes too once no other record uses it.
func (s *Store) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "delete passage")
	}

	var refs int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages WHERE blake3 = ?`, rec.Hash).Scan(&refs); err != nil {
		return errors.Wrap(err, "count blob references")
	}
	if refs == 0 {
		if err := s.blobs.Delete(rec.Hash); err != nil && !errors.Is(err, errors.ErrNotFound) {
			return err
		}
	}
	logging.StoreEvent(ctx, "delete", rec.ID, rec.Name)
	return nil
}
