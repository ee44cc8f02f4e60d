package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abdelfattahqandil21-oss/back-ngPodium/pkg/database"
)

// DefaultDocumentName names the row holding the post document.
const DefaultDocumentName = "posts"

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS post_documents (
	name       TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps the post document in one row of post_documents.
// The row is replaced with a single upsert, so readers see whole documents.
// Mutate locks the row, which serializes writers across replicas.
type PostgresStore struct {
	pool *pgxpool.Pool
	name string
}

// Ensure PostgresStore implements DocumentStore and Mutator.
var (
	_ DocumentStore = (*PostgresStore)(nil)
	_ Mutator       = (*PostgresStore)(nil)
)

// NewPostgresStore creates the documents table when missing.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, name string) (*PostgresStore, error) {
	if name == "" {
		name = DefaultDocumentName
	}
	if _, err := pool.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("create post_documents table: %w", err)
	}
	return &PostgresStore{pool: pool, name: name}, nil
}

func (s *PostgresStore) Read(ctx context.Context) (*Document, error) {
	var body string
	err := s.pool.QueryRow(ctx,
		`SELECT body::text FROM post_documents WHERE name = $1`, s.name,
	).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DecodeDocument(nil)
		}
		return nil, fmt.Errorf("select post document: %w", err)
	}
	return DecodeDocument([]byte(body))
}

func (s *PostgresStore) Write(ctx context.Context, doc *Document) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		return s.upsert(ctx, tx, doc)
	})
}

// Mutate runs fn while holding the row lock from SELECT ... FOR UPDATE.
func (s *PostgresStore) Mutate(ctx context.Context, fn func(doc *Document) error) error {
	return database.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		// The row must exist before it can be locked
		_, err := tx.Exec(ctx, `
			INSERT INTO post_documents (name, body)
			VALUES ($1, '{"posts": []}'::jsonb)
			ON CONFLICT (name) DO NOTHING`,
			s.name,
		)
		if err != nil {
			return fmt.Errorf("seed post document: %w", err)
		}

		var body string
		err = tx.QueryRow(ctx,
			`SELECT body::text FROM post_documents WHERE name = $1 FOR UPDATE`, s.name,
		).Scan(&body)
		if err != nil {
			return fmt.Errorf("lock post document: %w", err)
		}

		doc, err := DecodeDocument([]byte(body))
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.upsert(ctx, tx, doc)
	})
}

func (s *PostgresStore) upsert(ctx context.Context, tx pgx.Tx, doc *Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode post document: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO post_documents (name, body, updated_at)
		VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (name) DO UPDATE
		SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		s.name, string(data),
	)
	if err != nil {
		return fmt.Errorf("upsert post document: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
