package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"exercise-vectors/internal/app"
	"exercise-vectors/internal/embeddings"
	"exercise-vectors/internal/exercise"
	"exercise-vectors/internal/progress"
	"exercise-vectors/internal/store"
)

type recorder struct{ events []progress.Event }

func (r *recorder) Report(_ context.Context, ev progress.Event) { r.events = append(r.events, ev) }

func newTestDeps(st store.DocumentStore, e embeddings.Embedder, r progress.Reporter) app.JobDeps {
	return app.JobDeps{
		Deps: app.Deps{
			Embedder: e,
			Log:      discardLog(),
		},
		Reporter: r,
		Store:    st,
	}
}

const exercisesJSON = `[
	{"Title":"Push-up","Desc":"Bodyweight chest exercise","Type":"Strength","BodyPart":"Chest","Equipment":"None","Level":"Beginner"},
	{"Title":"Squat","Desc":"Lower body compound lift","Type":"Strength","BodyPart":"Legs","Equipment":"Barbell","Level":"Intermediate"}
]`

func discardLog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loadInput(t *testing.T) []exercise.Record {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exercises.json")
	require.NoError(t, os.WriteFile(path, []byte(exercisesJSON), 0o644))
	records, err := loadExercises(discardLog(), path)
	require.NoError(t, err)
	return records
}

func TestRunEmbedStore(t *testing.T) {
	records := loadInput(t)
	pushUpText := "Title: Push-up\nDescription: Bodyweight chest exercise\nType: Strength\nBody Part: Chest\nEquipment: None\nLevel: Beginner"
	vec := make(embeddings.Vector, embeddings.Dimension)

	e := new(embeddings.MockEmbedder)
	e.On("Dimension").Return(embeddings.Dimension)
	e.On("Embed", mock.Anything, pushUpText).Return(vec, nil).Once()
	e.On("Embed", mock.Anything, mock.Anything).Return(vec, nil).Once()

	st := new(store.MockStore)
	st.On("AddDocument", mock.Anything, "exercises", store.Document{
		Title:     "Push-up",
		BodyPart:  "Chest",
		Level:     "Beginner",
		Equipment: "None",
		Text:      pushUpText,
		Embedding: vec,
	}).Return("id-1", nil).Once()
	st.On("AddDocument", mock.Anything, "exercises", mock.MatchedBy(func(doc store.Document) bool {
		return doc.Title == "Squat" && doc.Equipment == "Barbell"
	})).Return("id-2", nil).Once()

	rep := &recorder{}
	require.NoError(t, runEmbedStore(context.Background(), newTestDeps(st, e, rep), records, "exercises"))

	// One report per record plus the final one.
	require.Len(t, rep.events, 3)
	assert.Equal(t, "Push-up", rep.events[0].Title)
	assert.Equal(t, "Squat", rep.events[1].Title)
	assert.True(t, rep.events[2].Final)
	st.AssertExpectations(t)
	e.AssertExpectations(t)
}

func TestRunEmbedStoreTwiceAppendsTwice(t *testing.T) {
	records := loadInput(t)

	e := new(embeddings.MockEmbedder)
	e.On("Dimension").Return(embeddings.Dimension)
	e.On("Embed", mock.Anything, mock.Anything).Return(make(embeddings.Vector, embeddings.Dimension), nil)

	st := new(store.MockStore)
	st.On("AddDocument", mock.Anything, "exercises", mock.Anything).Return("id", nil)

	deps := newTestDeps(st, e, &recorder{})
	require.NoError(t, runEmbedStore(context.Background(), deps, records, "exercises"))
	require.NoError(t, runEmbedStore(context.Background(), deps, records, "exercises"))

	st.AssertNumberOfCalls(t, "AddDocument", 4)
}

func TestRunEmbedStoreFailFast(t *testing.T) {
	records := loadInput(t)

	e := new(embeddings.MockEmbedder)
	e.On("Dimension").Return(embeddings.Dimension)
	e.On("Embed", mock.Anything, mock.Anything).Return(make(embeddings.Vector, embeddings.Dimension), nil).Once()

	st := new(store.MockStore)
	st.On("AddDocument", mock.Anything, "exercises", mock.Anything).Return("", errors.New("permission denied")).Once()

	rep := &recorder{}
	err := runEmbedStore(context.Background(), newTestDeps(st, e, rep), records, "exercises")

	assert.ErrorContains(t, err, "permission denied")
	assert.Empty(t, rep.events)
	st.AssertExpectations(t)
	e.AssertExpectations(t)
}

func TestLoadExercisesMissingInput(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))

	_, err := loadExercises(log, filepath.Join(t.TempDir(), "exercises.json"))

	assert.ErrorIs(t, err, exercise.ErrInputNotFound)
	assert.Contains(t, logs.String(), "input not found")
}

func TestRootCmdChecksInputBeforeCredentials(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetArgs([]string{
		"--input", filepath.Join(dir, "exercises.json"),
		"--credentials", filepath.Join(dir, "serviceAccountKey.json"),
	})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())

	assert.ErrorIs(t, err, exercise.ErrInputNotFound)
}
