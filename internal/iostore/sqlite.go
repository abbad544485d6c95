package iostore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/avharvest/avharvest/pkg/schema"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// dateLayout is used for update_date values, which SQLite keeps as text.
const dateLayout = time.RFC3339Nano

type sqliteStore struct {
	db        *sql.DB
	path      string
	batchSize int
}

// NewSQLite opens or creates the SQLite file and its collection tables.
func NewSQLite(
	ctx context.Context,
	path string,
	batch int,
) (harvest.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, OpenError(path, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, OpenError(path, err)
	}
	// writes are serialized
	db.SetMaxOpenConns(1)

	res := &sqliteStore{db: db, path: path, batchSize: batchSize(batch)}
	if err = res.createTables(ctx); err != nil {
		db.Close()
		return nil, OpenError(path, err)
	}
	return res, nil
}

// CreateSQLite removes the SQLite file and creates empty collection
// tables.
func CreateSQLite(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return OpenError(path, err)
	}
	s, err := NewSQLite(ctx, path, 0)
	if err != nil {
		return err
	}
	return s.Close()
}

func (s *sqliteStore) createTables(ctx context.Context) error {
	for _, c := range record.Collections() {
		stmts := append(
			[]string{schema.Video{}.TableDDL(string(c))},
			schema.Video{}.IndexDDL(string(c))...,
		)
		for _, q := range stmts {
			if _, err := s.db.ExecContext(ctx, q); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *sqliteStore) Exists(
	ctx context.Context,
	url string,
	c record.Collection,
) (bool, error) {
	q := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE url = ?)", c)
	var res bool
	if err := s.db.QueryRowContext(ctx, q, url).Scan(&res); err != nil {
		return false, ReadError(c, err)
	}
	return res, nil
}

func (s *sqliteStore) UpdateDate(
	ctx context.Context,
	url string,
	c record.Collection,
) (*time.Time, error) {
	q := fmt.Sprintf("SELECT update_date FROM %s WHERE url = ?", c)
	var date sql.NullString
	err := s.db.QueryRowContext(ctx, q, url).Scan(&date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, ReadError(c, err)
	}
	res, err := parseDate(date)
	if err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func (s *sqliteStore) Backlog(
	ctx context.Context,
	c record.Collection,
) ([]record.Record, error) {
	q := selectSQL(string(c)) + " WHERE update_date IS NULL ORDER BY rowid"
	return s.query(ctx, c, q)
}

func (s *sqliteStore) RecordsByURLs(
	ctx context.Context,
	urls []string,
	c record.Collection,
) ([]record.Record, error) {
	var res []record.Record
	for chunk := range slices.Chunk(urls, maxInList) {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(chunk)), ",")
		q := fmt.Sprintf(
			"%s WHERE url IN (%s) ORDER BY rowid", selectSQL(string(c)), marks,
		)
		vals := make([]any, len(chunk))
		for i := range chunk {
			vals[i] = chunk[i]
		}
		recs, err := s.query(ctx, c, q, vals...)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	return res, nil
}

func (s *sqliteStore) query(
	ctx context.Context,
	c record.Collection,
	q string,
	vals ...any,
) ([]record.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, vals...)
	if err != nil {
		return nil, ReadError(c, err)
	}
	defer rows.Close()

	var res []record.Record
	for rows.Next() {
		var r row
		var date sql.NullString
		if err = rows.Scan(r.dest(&date)...); err != nil {
			return nil, ReadError(c, err)
		}
		rec, err := r.record()
		if err != nil {
			return nil, ReadError(c, err)
		}
		if rec.UpdateDate, err = parseDate(date); err != nil {
			return nil, ReadError(c, err)
		}
		res = append(res, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func (s *sqliteStore) URLKeys(
	ctx context.Context,
	c record.Collection,
) ([]string, error) {
	q := fmt.Sprintf("SELECT url FROM %s ORDER BY rowid", c)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, ReadError(c, err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var url string
		if err = rows.Scan(&url); err != nil {
			return nil, ReadError(c, err)
		}
		res = append(res, url)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func sqliteArgs(r record.Record) ([]any, error) {
	return args(r,
		func(id uuid.UUID) any { return id.String() },
		func(tags []byte) any {
			if tags == nil {
				return nil
			}
			return string(tags)
		},
		func(t *time.Time) any {
			if t == nil {
				return nil
			}
			return t.UTC().Format(dateLayout)
		},
	)
}

func parseDate(date sql.NullString) (*time.Time, error) {
	if !date.Valid || date.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, date.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *sqliteStore) UpsertMany(
	ctx context.Context,
	recs []record.Record,
	c record.Collection,
) error {
	q := upsertSQL(string(c), func(int) string { return "?" })
	for chunk := range slices.Chunk(recs, s.batchSize) {
		if err := s.insert(ctx, q, chunk, nil); err != nil {
			return WriteError(c, err)
		}
	}
	return nil
}

// insert runs q for every record in one transaction. When prep is
// given it runs first in the same transaction.
func (s *sqliteStore) insert(
	ctx context.Context,
	q string,
	recs []record.Record,
	prep func(*sql.Tx) error,
) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if prep != nil {
		if err = prep(tx); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		vals, err := sqliteArgs(r)
		if err != nil {
			return err
		}
		if _, err = stmt.ExecContext(ctx, vals...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Delete(
	ctx context.Context,
	url string,
	c record.Collection,
) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE url = ?", c)
	if _, err := s.db.ExecContext(ctx, q, url); err != nil {
		return DeleteError(url, c, err)
	}
	return nil
}

func (s *sqliteStore) ReplaceAll(
	ctx context.Context,
	recs []record.Record,
	c record.Collection,
) error {
	recs = dedupe(recs)
	cols := append([]string{"id"}, schema.Columns()...)
	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		c,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
	)
	err := s.insert(ctx, q, recs, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM "+string(c))
		return err
	})
	if err != nil {
		return WriteError(c, err)
	}
	slog.Debug("Replaced collection", "collection", c, "records", len(recs))
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
