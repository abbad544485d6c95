package iostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/avharvest/avharvest/internal/iodb"
	"github.com/avharvest/avharvest/pkg/config"
	"github.com/avharvest/avharvest/pkg/db"
	"github.com/avharvest/avharvest/pkg/harvest"
	"github.com/avharvest/avharvest/pkg/record"
	"github.com/avharvest/avharvest/pkg/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type pgStore struct {
	op        db.Operator
	batchSize int
}

// NewPostgres connects to PostgreSQL and checks that all collection
// tables exist.
func NewPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) (harvest.Store, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return newPgStore(ctx, op, cfg.BatchSize)
}

// NewPostgresWithOperator uses an already connected operator.
func NewPostgresWithOperator(
	ctx context.Context,
	op db.Operator,
	batch int,
) (harvest.Store, error) {
	return newPgStore(ctx, op, batch)
}

func newPgStore(
	ctx context.Context,
	op db.Operator,
	batch int,
) (*pgStore, error) {
	for _, c := range record.Collections() {
		ok, err := op.TableExists(ctx, string(c))
		if err != nil {
			op.Close()
			return nil, err
		}
		if !ok {
			op.Close()
			return nil, MissingTableError(string(c))
		}
	}
	return &pgStore{op: op, batchSize: batchSize(batch)}, nil
}

func (s *pgStore) table(c record.Collection) string {
	return pgx.Identifier{string(c)}.Sanitize()
}

func (s *pgStore) Exists(
	ctx context.Context,
	url string,
	c record.Collection,
) (bool, error) {
	q := fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE url = $1)", s.table(c),
	)
	var res bool
	if err := s.op.Pool().QueryRow(ctx, q, url).Scan(&res); err != nil {
		return false, ReadError(c, err)
	}
	return res, nil
}

func (s *pgStore) UpdateDate(
	ctx context.Context,
	url string,
	c record.Collection,
) (*time.Time, error) {
	q := fmt.Sprintf("SELECT update_date FROM %s WHERE url = $1", s.table(c))
	var res *time.Time
	err := s.op.Pool().QueryRow(ctx, q, url).Scan(&res)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func (s *pgStore) Backlog(
	ctx context.Context,
	c record.Collection,
) ([]record.Record, error) {
	q := selectSQL(s.table(c)) + " WHERE update_date IS NULL ORDER BY seq"
	return s.query(ctx, c, q)
}

func (s *pgStore) RecordsByURLs(
	ctx context.Context,
	urls []string,
	c record.Collection,
) ([]record.Record, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	q := selectSQL(s.table(c)) + " WHERE url = ANY($1) ORDER BY seq"
	return s.query(ctx, c, q, urls)
}

func (s *pgStore) query(
	ctx context.Context,
	c record.Collection,
	q string,
	vals ...any,
) ([]record.Record, error) {
	rows, err := s.op.Pool().Query(ctx, q, vals...)
	if err != nil {
		return nil, ReadError(c, err)
	}
	defer rows.Close()

	var res []record.Record
	for rows.Next() {
		var r row
		var date *time.Time
		if err = rows.Scan(r.dest(&date)...); err != nil {
			return nil, ReadError(c, err)
		}
		rec, err := r.record()
		if err != nil {
			return nil, ReadError(c, err)
		}
		rec.UpdateDate = date
		res = append(res, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func (s *pgStore) URLKeys(
	ctx context.Context,
	c record.Collection,
) ([]string, error) {
	q := fmt.Sprintf("SELECT url FROM %s ORDER BY seq", s.table(c))
	rows, err := s.op.Pool().Query(ctx, q)
	if err != nil {
		return nil, ReadError(c, err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, ReadError(c, err)
	}
	return res, nil
}

func pgArgs(r record.Record) ([]any, error) {
	return args(r,
		func(id uuid.UUID) any { return pgtype.UUID{Bytes: id, Valid: true} },
		func(tags []byte) any { return tags },
		func(t *time.Time) any { return t },
	)
}

func (s *pgStore) UpsertMany(
	ctx context.Context,
	recs []record.Record,
	c record.Collection,
) error {
	q := upsertSQL(s.table(c), func(i int) string {
		return fmt.Sprintf("$%d", i)
	})

	for chunk := range slices.Chunk(recs, s.batchSize) {
		batch := &pgx.Batch{}
		for _, r := range chunk {
			vals, err := pgArgs(r)
			if err != nil {
				return WriteError(c, err)
			}
			batch.Queue(q, vals...)
		}
		if err := s.op.Pool().SendBatch(ctx, batch).Close(); err != nil {
			return WriteError(c, err)
		}
	}
	return nil
}

func (s *pgStore) Delete(
	ctx context.Context,
	url string,
	c record.Collection,
) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE url = $1", s.table(c))
	if _, err := s.op.Pool().Exec(ctx, q, url); err != nil {
		return DeleteError(url, c, err)
	}
	return nil
}

// ReplaceAll empties the collection and copies records in one
// transaction.
func (s *pgStore) ReplaceAll(
	ctx context.Context,
	recs []record.Record,
	c record.Collection,
) error {
	tx, err := s.op.Pool().Begin(ctx)
	if err != nil {
		return WriteError(c, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err = tx.Exec(ctx, "DELETE FROM "+s.table(c)); err != nil {
		return WriteError(c, err)
	}

	recs = dedupe(recs)
	columns := append([]string{"id"}, schema.Columns()...)
	for chunk := range slices.Chunk(recs, s.batchSize) {
		rows := make([][]any, 0, len(chunk))
		for _, r := range chunk {
			vals, err := pgArgs(r)
			if err != nil {
				return WriteError(c, err)
			}
			rows = append(rows, vals)
		}
		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{string(c)},
			columns,
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return WriteError(c, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return WriteError(c, err)
	}
	slog.Debug("Replaced collection", "collection", c, "records", len(recs))
	return nil
}

func (s *pgStore) Close() error {
	return s.op.Close()
}
