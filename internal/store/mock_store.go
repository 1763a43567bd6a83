package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of DocumentStore using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) AddDocument(ctx context.Context, collection string, doc Document) (string, error) {
	args := m.Called(ctx, collection, doc)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
