package customer

import (
	"context"

	"github.com/occtelecom/backend/internal/domain/customer"
)

// SearchService answers the admin customer search box
type SearchService struct {
	searchRepo customer.SearchRepository
}

// NewSearchService creates a new SearchService
func NewSearchService(searchRepo customer.SearchRepository) *SearchService {
	return &SearchService{searchRepo: searchRepo}
}

// Search classifies the free-text query and runs the matching predicate
// against the search view. Queries too short to classify return an empty
// result set rather than an error.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	query := customer.ClassifySearchQuery(req.Query)
	if query.IsEmpty() {
		return &SearchResponse{Mode: string(query.Mode), Results: []customer.SearchRow{}}, nil
	}

	rows, err := s.searchRepo.Search(ctx, query, req.Limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []customer.SearchRow{}
	}

	return &SearchResponse{Mode: string(query.Mode), Results: rows}, nil
}
