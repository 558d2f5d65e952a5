// Package postgres backs the document store with a single JSONB table,
// keyed by (collection, id). Connection failures are mapped to the closed
// docstore error set so callers never inspect driver error text.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vivicarm/AppIventario/internal/docstore"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id         TEXT NOT NULL,
			body       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)
	`)
	return err
}

func (s *Store) Create(ctx context.Context, collection string, id string, doc any) error {
	if id == "" {
		return docstore.ErrInvalidID
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	_, err = psql.Insert("documents").
		Columns("collection", "id", "body").
		Values(collection, id, body).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return docstore.ErrAlreadyExists
		}
		return mapError(err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, collection string, id string, out any) error {
	var body []byte
	err := psql.Select("body").
		From("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return docstore.ErrNotFound
		}
		return mapError(err)
	}
	return json.Unmarshal(body, out)
}

func (s *Store) List(ctx context.Context, collection string) ([]json.RawMessage, error) {
	rows, err := psql.Select("body").
		From("documents").
		Where(sq.Eq{"collection": collection}).
		OrderBy("created_at", "id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	out := make([]json.RawMessage, 0, 64)
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := psql.Update("documents").
		Set("body", body).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"collection": collection, "id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection string, id string) error {
	res, err := psql.Delete("documents").
		Where(sq.Eq{"collection": collection, "id": id}).
		RunWith(s.db).
		ExecContext(ctx)
	if err != nil {
		return mapError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return docstore.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapError folds driver-level failures into the docstore taxonomy.
// 28xxx are authorization failures; 42501 is insufficient privilege;
// 08xxx and context errors mean the backend is unreachable.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42501" || (len(pgErr.Code) >= 2 && pgErr.Code[:2] == "28"):
			return docstore.ErrPermissionDenied
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			return docstore.ErrUnavailable
		}
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return docstore.ErrUnavailable
	}
	return err
}
