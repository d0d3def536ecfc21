package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/opencatalog/backend/internal/domain/catalog"
	"github.com/opencatalog/backend/internal/domain/shared"
)

// newMockDB creates a GORM connection backed by sqlmock
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

func newMockProductRepository(t *testing.T) (*GormProductRepository, sqlmock.Sqlmock, *sql.DB) {
	gormDB, mock, mockDB := newMockDB(t)
	return NewGormProductRepository(gormDB), mock, mockDB
}

func TestGormProductRepository_FindBySKU(t *testing.T) {
	t.Run("finds existing product with children", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()
		mock.MatchExpectationsInOrder(false)

		productID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "products" WHERE tenant_id = \$1 AND sku = \$2`).
			WithArgs(tenantID, "CHAIR-001", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "sku", "name", "status"}).
				AddRow(productID, tenantID, "CHAIR-001", "Ergonomic Chair", "active"))
		mock.ExpectQuery(`SELECT \* FROM "product_variants"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "sku"}).
				AddRow(uuid.New(), productID, "CHAIR-001-RED"))
		mock.ExpectQuery(`SELECT \* FROM "product_images"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "url"}))

		product, err := repo.FindBySKU(context.Background(), tenantID, "chair-001")

		require.NoError(t, err)
		assert.Equal(t, "CHAIR-001", product.SKU)
		require.Len(t, product.Variants, 1)
		assert.Equal(t, "CHAIR-001-RED", product.Variants[0].SKU)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("translates missing row to domain not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "products"`).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindBySKU(context.Background(), tenantID, "GONE-001")

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_SKUExists(t *testing.T) {
	t.Run("reports existing SKU uppercased", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE tenant_id = \$1 AND sku = \$2`).
			WithArgs(tenantID, "CHAIR-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.SKUExists(context.Background(), tenantID, "chair-001", nil)

		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the given product ID", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		excludeID := uuid.New()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "products" WHERE \(tenant_id = \$1 AND sku = \$2\) AND id != \$3`).
			WithArgs(tenantID, "CHAIR-001", excludeID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.SKUExists(context.Background(), tenantID, "CHAIR-001", &excludeID)

		require.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormProductRepository_DeleteForTenant(t *testing.T) {
	t.Run("deletes existing product", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		mock.ExpectExec(`DELETE FROM "products" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, productID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteForTenant(context.Background(), tenantID, productID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing product yields not found", func(t *testing.T) {
		repo, mock, mockDB := newMockProductRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "products"`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteForTenant(context.Background(), uuid.New(), uuid.New())

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTranslateUniqueViolation(t *testing.T) {
	t.Run("duplicate key becomes a domain error", func(t *testing.T) {
		err := translateUniqueViolation(&pgconn.PgError{Code: uniqueViolation}, "chair-001")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		assert.Contains(t, domainErr.Message, "CHAIR-001")
	})

	t.Run("wrapped driver error is still recognized", func(t *testing.T) {
		wrapped := fmt.Errorf("create product: %w", &pgconn.PgError{Code: uniqueViolation})
		err := translateUniqueViolation(wrapped, "chair-001")

		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		original := errors.New("connection reset")
		assert.Same(t, original, translateUniqueViolation(original, "X"))
	})
}

func TestGormProductRepository_CreateDuplicateSKU(t *testing.T) {
	repo, mock, mockDB := newMockProductRepository(t)
	defer mockDB.Close()

	product, err := catalog.NewProduct(uuid.New(), "CHAIR-001", "Ergonomic Chair")
	require.NoError(t, err)

	mock.ExpectExec(`INSERT INTO "products"`).
		WillReturnError(&pgconn.PgError{Code: uniqueViolation, ConstraintName: "idx_products_tenant_sku"})

	err = repo.Create(context.Background(), product)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	assert.Contains(t, domainErr.Message, "CHAIR-001")
	assert.NoError(t, mock.ExpectationsWereMet())
}
