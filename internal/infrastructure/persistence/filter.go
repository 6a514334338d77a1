package persistence

import (
	"strings"

	"github.com/occtelecom/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies pagination and ordering from a shared.Filter.
// Only columns in the allowed set may be used for ordering; anything else
// falls back to the default so client input can never reach raw SQL.
func applyFilter(query *gorm.DB, filter shared.Filter, allowedOrder map[string]bool, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := filter.OrderBy
	if orderBy == "" || !allowedOrder[orderBy] {
		return query.Order(defaultOrder)
	}

	orderDir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		orderDir = "DESC"
	}
	return query.Order(orderBy + " " + orderDir)
}
