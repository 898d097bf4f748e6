package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/Ever-fnf/imc/internal/snowflake"
	"github.com/Ever-fnf/imc/pkg/models"
)

// MockStore provides an in-memory warehouse
type MockStore struct {
	mu sync.Mutex

	// Query results keyed by exact query text
	Results      map[string]*snowflake.ResultSet
	QueryErrors  map[string]error
	ReplaceError error

	// Execution tracking
	Queries []string
	Loads   []TableLoad
	Closed  bool
}

// TableLoad records one ReplaceTable call
type TableLoad struct {
	Table     string
	Columns   []models.Column
	Rows      [][]interface{}
	BatchSize int
}

// NewMockStore creates a new mock warehouse
func NewMockStore() *MockStore {
	return &MockStore{
		Results:     make(map[string]*snowflake.ResultSet),
		QueryErrors: make(map[string]error),
	}
}

// Query returns the registered result for query.
func (m *MockStore) Query(ctx context.Context, query string) (*snowflake.ResultSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Queries = append(m.Queries, query)
	if err := m.QueryErrors[query]; err != nil {
		return nil, err
	}
	result, ok := m.Results[query]
	if !ok {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return result, nil
}

// ReplaceTable records the load.
func (m *MockStore) ReplaceTable(ctx context.Context, table string, columns []models.Column, rows [][]interface{}, batchSize int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ReplaceError != nil {
		return 0, m.ReplaceError
	}
	m.Loads = append(m.Loads, TableLoad{Table: table, Columns: columns, Rows: rows, BatchSize: batchSize})
	return int64(len(rows)), nil
}

var _ snowflake.Store = (*MockStore)(nil)

// Close marks the store as closed
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
