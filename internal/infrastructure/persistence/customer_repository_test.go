package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/occtelecom/backend/internal/domain/customer"
	"github.com/occtelecom/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM DB backed by a mocked SQL connection
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "account_number", "full_name", "email", "status"}).
			AddRow(customerID, "OCC000123", "Jane Bloggs", "jane@example.com", "active")

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnRows(rows)

		c, err := repo.FindByID(context.Background(), customerID)

		require.NoError(t, err)
		assert.Equal(t, customerID, c.ID)
		assert.Equal(t, "OCC000123", c.AccountNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing customer", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 .* LIMIT .*`).
			WithArgs(customerID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByAccountNumber(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormCustomerRepository(db)

	customerID := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "account_number", "full_name", "email", "status"}).
		AddRow(customerID, "OCC000042", "Sam Patel", "sam@example.com", "active")

	// lookup is uppercased before hitting the index
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE account_number = \$1 .* LIMIT .*`).
		WithArgs("OCC000042", 1).
		WillReturnRows(rows)

	c, err := repo.FindByAccountNumber(context.Background(), "occ000042")

	require.NoError(t, err)
	assert.Equal(t, "OCC000042", c.AccountNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCustomerRepository_ExistsByEmail(t *testing.T) {
	t.Run("lowercases the email", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE email = \$1`).
			WithArgs("jane@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByEmail(context.Background(), "Jane@Example.COM")

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty email short-circuits", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		exists, err := repo.ExistsByEmail(context.Background(), "")

		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormCustomerRepository_Delete(t *testing.T) {
	t.Run("missing row returns ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerRepository(db)

		customerID := uuid.New()
		mock.ExpectExec(`DELETE FROM "customers" WHERE id = \$1`).
			WithArgs(customerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), customerID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerSearchRepository_Search(t *testing.T) {
	searchRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{
			"customer_id", "account_number", "full_name", "email", "phone_digits", "postcode", "status",
		}).AddRow(uuid.New().String(), "OCC000123", "Jane Bloggs", "jane@example.com", "07700900123", "S12AB", "active")
	}

	t.Run("account number uses anchored prefix", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customer_search_view" WHERE account_number LIKE \$1`).
			WithArgs("OCC0001%", 25).
			WillReturnRows(searchRows())

		rows, err := repo.Search(context.Background(), customer.ClassifySearchQuery("occ0001"), 0)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "OCC000123", rows[0].AccountNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email uses substring", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customer_search_view" WHERE LOWER\(email\) LIKE \$1`).
			WithArgs("%jane@%", 25).
			WillReturnRows(searchRows())

		_, err := repo.Search(context.Background(), customer.ClassifySearchQuery("Jane@"), 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("phone matches stripped digits", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customer_search_view" WHERE phone_digits LIKE \$1`).
			WithArgs("%07700%", 25).
			WillReturnRows(searchRows())

		_, err := repo.Search(context.Background(), customer.ClassifySearchQuery("0770 0"), 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("short postcode-like query applies both predicates", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "customer_search_view" WHERE postcode LIKE \$1 OR LOWER\(full_name\) LIKE LOWER\(\$2\)`).
			WithArgs("%S12AB%", "%s1 2ab%", 25).
			WillReturnRows(searchRows())

		_, err := repo.Search(context.Background(), customer.ClassifySearchQuery("s1 2ab"), 0)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("postcode term matches mid-postcode", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		// "3wu" normalizes to 3WU and must hit HD33WU, so the postcode
		// arm cannot be anchored to the start
		rows := sqlmock.NewRows([]string{
			"customer_id", "account_number", "full_name", "email", "phone_digits", "postcode", "status",
		}).AddRow(uuid.New().String(), "OCC000456", "Priya Shah", "priya@example.com", "07700900456", "HD33WU", "active")

		mock.ExpectQuery(`SELECT \* FROM "customer_search_view" WHERE postcode LIKE \$1 OR LOWER\(full_name\) LIKE LOWER\(\$2\)`).
			WithArgs("%3WU%", "%3wu%", 25).
			WillReturnRows(rows)

		got, err := repo.Search(context.Background(), customer.ClassifySearchQuery("3wu"), 0)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "HD33WU", got[0].Postcode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty query issues no SQL", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCustomerSearchRepository(db)

		rows, err := repo.Search(context.Background(), customer.ClassifySearchQuery("x"), 10)

		require.NoError(t, err)
		assert.Empty(t, rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
