package pipeline

import (
	"context"
	"log/slog"

	"exercise-vectors/internal/store"
)

// StoreSink appends one document per record to a collection.
type StoreSink struct {
	store      store.DocumentStore
	collection string
	log        *slog.Logger
}

func NewStoreSink(st store.DocumentStore, collection string, log *slog.Logger) *StoreSink {
	if collection == "" {
		collection = store.DefaultCollection
	}
	return &StoreSink{store: st, collection: collection, log: log}
}

func (s *StoreSink) Put(ctx context.Context, item Item) error {
	id, err := s.store.AddDocument(ctx, s.collection, store.Document{
		Title:     item.Record.Title(),
		BodyPart:  item.Record.BodyPart(),
		Level:     item.Record.Level(),
		Equipment: item.Record.Equipment(),
		Text:      item.Text,
		Embedding: item.Vector,
	})
	if err != nil {
		return err
	}
	s.log.Debug("document added", "collection", s.collection, "id", id, "index", item.Index)
	return nil
}

func (s *StoreSink) Flush(context.Context) error { return nil }
