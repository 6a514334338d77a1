package persistence

import (
	"context"

	"github.com/occtelecom/backend/internal/domain/customer"
	"gorm.io/gorm"
)

// searchViewName is the denormalized customer search view maintained by
// the migrations. It carries pre-stripped phone digits and normalized
// postcodes so the predicates below stay simple.
const searchViewName = "customer_search_view"

const defaultSearchLimit = 25

// GormCustomerSearchRepository implements customer.SearchRepository
// against the customer search view.
type GormCustomerSearchRepository struct {
	db *gorm.DB
}

// NewGormCustomerSearchRepository creates a new search repository
func NewGormCustomerSearchRepository(db *gorm.DB) *GormCustomerSearchRepository {
	return &GormCustomerSearchRepository{db: db}
}

// Search runs the predicate selected by the classified query. Each mode
// maps to exactly one WHERE clause; the classifier owns the precedence.
func (r *GormCustomerSearchRepository) Search(ctx context.Context, query customer.SearchQuery, limit int) ([]customer.SearchRow, error) {
	if query.IsEmpty() {
		return []customer.SearchRow{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	q := r.db.WithContext(ctx).Table(searchViewName)

	switch query.Mode {
	case customer.SearchModeAccountNumber:
		q = q.Where("account_number LIKE ?", query.Term+"%")
	case customer.SearchModeEmail:
		q = q.Where("LOWER(email) LIKE ?", "%"+query.Term+"%")
	case customer.SearchModePhone:
		q = q.Where("phone_digits LIKE ?", "%"+query.Term+"%")
	case customer.SearchModePostcodeOrName:
		q = q.Where("postcode LIKE ? OR LOWER(full_name) LIKE LOWER(?)",
			"%"+query.Term+"%", "%"+query.NameTerm+"%")
	case customer.SearchModeName:
		q = q.Where("LOWER(full_name) LIKE LOWER(?)", "%"+query.Term+"%")
	default:
		return []customer.SearchRow{}, nil
	}

	var rows []customer.SearchRow
	if err := q.Order("account_number ASC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

var _ customer.SearchRepository = (*GormCustomerSearchRepository)(nil)
