package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestore connects with the service account in credentialsFile. An empty
// projectID is detected from the credentials.
func NewFirestore(ctx context.Context, projectID, credentialsFile string) (*FirestoreStore, error) {
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) AddDocument(ctx context.Context, collection string, doc Document) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, firestoreFields(doc))
	if err != nil {
		return "", fmt.Errorf("add document to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// firestoreFields maps a document onto the collection's field names. The
// embedding is stored as a plain array of doubles.
func firestoreFields(doc Document) map[string]any {
	return map[string]any{
		"title":     doc.Title,
		"bodyPart":  doc.BodyPart,
		"level":     doc.Level,
		"equipment": doc.Equipment,
		"text":      doc.Text,
		"embedding": doc.Embedding.Float64s(),
	}
}
