package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/occtelecom/backend/internal/domain/customer"
)

// MockSearchRepository is a mock implementation of customer.SearchRepository
type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) Search(ctx context.Context, query customer.SearchQuery, limit int) ([]customer.SearchRow, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customer.SearchRow), args.Error(1)
}

func TestSearchClassifiesAccountNumber(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)
	ctx := context.Background()

	rows := []customer.SearchRow{{AccountNumber: "OCC000123", FullName: "Jane Smith"}}
	repo.On("Search", ctx, mock.MatchedBy(func(q customer.SearchQuery) bool {
		return q.Mode == customer.SearchModeAccountNumber && q.Term == "OCC0001"
	}), 0).Return(rows, nil)

	resp, err := svc.Search(ctx, SearchRequest{Query: "occ0001"})

	require.NoError(t, err)
	assert.Equal(t, "account_number", resp.Mode)
	assert.Len(t, resp.Results, 1)
	repo.AssertExpectations(t)
}

func TestSearchShortQueryReturnsEmpty(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)

	resp, err := svc.Search(context.Background(), SearchRequest{Query: "a"})

	require.NoError(t, err)
	assert.Equal(t, "none", resp.Mode)
	assert.Empty(t, resp.Results)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchNilRowsBecomeEmptySlice(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)
	ctx := context.Background()

	repo.On("Search", ctx, mock.Anything, 10).Return([]customer.SearchRow(nil), nil)

	resp, err := svc.Search(ctx, SearchRequest{Query: "jane@example.com", Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, "email", resp.Mode)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
}
