package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"exercise-vectors/internal/embeddings"
)

func TestFirestoreFields(t *testing.T) {
	doc := Document{
		Title:     "Push-up",
		BodyPart:  "Chest",
		Level:     "Beginner",
		Equipment: "None",
		Text:      "Title: Push-up",
		Embedding: embeddings.Vector{0.5, -1},
	}

	fields := firestoreFields(doc)

	assert.Equal(t, map[string]any{
		"title":     "Push-up",
		"bodyPart":  "Chest",
		"level":     "Beginner",
		"equipment": "None",
		"text":      "Title: Push-up",
		"embedding": []float64{0.5, -1},
	}, fields)
}

func TestCollectionSQL(t *testing.T) {
	tests := []struct {
		name       string
		collection string
		wantIdent  string
	}{
		{name: "plain name", collection: "exercises", wantIdent: `"exercises"`},
		{name: "quotes are escaped", collection: `ex"; DROP TABLE x; --`, wantIdent: `"ex""; DROP TABLE x; --"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			create := createCollectionSQL(tt.collection)
			assert.True(t, strings.HasPrefix(create, "CREATE TABLE IF NOT EXISTS "+tt.wantIdent+" ("))
			assert.Contains(t, create, "embedding vector(384)")

			insert := insertDocumentSQL(tt.collection)
			assert.True(t, strings.HasPrefix(insert, "INSERT INTO "+tt.wantIdent+"("))
		})
	}
}
