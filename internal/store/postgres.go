package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"exercise-vectors/internal/embeddings"
)

// PostgresStore keeps each collection in its own table with a pgvector column.
type PostgresStore struct {
	db *sql.DB

	mu     sync.Mutex
	tables map[string]bool
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := newPostgresStore(db)
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, tables: make(map[string]bool)}
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}
	return nil
}

// ensureCollection creates the collection's table the first time it is used.
// Concurrent jobs serialise on an advisory lock so only one runs the DDL.
func (s *PostgresStore) ensureCollection(ctx context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[collection] {
		return nil
	}

	const lockID = 384384384

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	if _, err := conn.ExecContext(ctx, createCollectionSQL(collection)); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", collection, err)
	}
	s.tables[collection] = true
	return nil
}

func createCollectionSQL(collection string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			title TEXT,
			body_part TEXT,
			level TEXT,
			equipment TEXT,
			text TEXT,
			embedding vector(%d),
			created_at TIMESTAMPTZ DEFAULT now()
		)`, pq.QuoteIdentifier(collection), embeddings.Dimension)
}

func insertDocumentSQL(collection string) string {
	return fmt.Sprintf(`INSERT INTO %s(id, title, body_part, level, equipment, text, embedding, created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7,$8)`, pq.QuoteIdentifier(collection))
}

func (s *PostgresStore) AddDocument(ctx context.Context, collection string, doc Document) (string, error) {
	if err := s.ensureCollection(ctx, collection); err != nil {
		return "", err
	}
	id := uuid.New()
	_, err := s.db.ExecContext(ctx, insertDocumentSQL(collection),
		id, doc.Title, doc.BodyPart, doc.Level, doc.Equipment, doc.Text,
		pgvector.NewVector(doc.Embedding), time.Now())
	if err != nil {
		return "", fmt.Errorf("add document to %s: %w", collection, err)
	}
	return id.String(), nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
