package testutil

import (
	"context"
	"sync"

	"github.com/Ever-fnf/imc/internal/sheets"
	apperrors "github.com/Ever-fnf/imc/pkg/errors"
	"github.com/Ever-fnf/imc/pkg/models"
)

// MockSheets serves tabs from memory.
type MockSheets struct {
	mu sync.Mutex

	Tabs   map[string][][]string
	Errors map[string]error

	// Reads lists the tabs requested, in order.
	Reads []string
}

// NewMockSheets creates an empty mock spreadsheet
func NewMockSheets() *MockSheets {
	return &MockSheets{
		Tabs:   make(map[string][][]string),
		Errors: make(map[string]error),
	}
}

// Values returns the padded tab contents; unknown tabs are TabNotFound.
func (m *MockSheets) Values(ctx context.Context, tab string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Reads = append(m.Reads, tab)
	if err := m.Errors[tab]; err != nil {
		return nil, err
	}
	values, ok := m.Tabs[tab]
	if !ok {
		return nil, apperrors.TabNotFound(tab, nil)
	}
	return sheets.PadRows(values), nil
}

// Records returns the tab as header-keyed records.
func (m *MockSheets) Records(ctx context.Context, tab string) ([]*models.Record, error) {
	values, err := m.Values(ctx, tab)
	if err != nil {
		return nil, err
	}
	records, err := sheets.ToRecords(values)
	if err != nil {
		return nil, apperrors.SourceError(err.Error(), tab, nil)
	}
	return records, nil
}

var _ sheets.Source = (*MockSheets)(nil)
