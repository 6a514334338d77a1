package persistence

import (
	"context"

	"gorm.io/gorm"
)

// Sequence names used for human-readable document numbers
const (
	sequenceCustomerAccount = "customer_account"
	sequenceOrderNumber     = "order_number"
	sequenceInvoiceNumber   = "invoice_number"
	sequenceReceiptNumber   = "receipt_number"
	sequenceTicketNumber    = "ticket_number"
)

// NumberSequence backs the monotonic counters behind account, order,
// invoice, receipt and ticket numbers.
type NumberSequence struct {
	Name  string `gorm:"type:varchar(50);primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (NumberSequence) TableName() string {
	return "number_sequences"
}

// nextSequence atomically increments and returns the named counter.
// The guarded UPDATE keeps two concurrent callers from ever seeing the
// same value.
func nextSequence(ctx context.Context, db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec("UPDATE number_sequences SET value = value + 1 WHERE name = ?", name)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&NumberSequence{Name: name, Value: 1}).Error; err != nil {
				return err
			}
			value = 1
			return nil
		}
		return tx.Raw("SELECT value FROM number_sequences WHERE name = ?", name).Scan(&value).Error
	})
	return value, err
}
