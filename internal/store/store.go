package store

import (
	"context"

	"exercise-vectors/internal/embeddings"
)

// DefaultCollection is where exercise documents are appended.
const DefaultCollection = "exercises"

// Document is one embedded exercise as persisted in a collection.
type Document struct {
	Title     string
	BodyPart  string
	Level     string
	Equipment string
	Text      string
	Embedding embeddings.Vector
}

// DocumentStore appends documents; the store assigns identity. There is no
// upsert, so writing the same exercise twice yields two documents.
type DocumentStore interface {
	AddDocument(ctx context.Context, collection string, doc Document) (string, error)
	Close() error
}
