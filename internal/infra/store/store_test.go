package store

import (
	"context"
	"errors"
	"testing"

	"content-restriction/internal/domain/access"
	"content-restriction/internal/domain/billing"
	"content-restriction/internal/domain/restriction"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(db, nil, "https://shop.test"), mock
}

var ctx = context.Background()

func TestHasAnyPurchase(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	assert.True(t, s.HasAnyPurchase(ctx, 4))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payments"`).
		WillReturnError(errors.New("connection reset"))
	assert.False(t, s.HasAnyPurchase(ctx, 4))

	// anonymous viewers never hit the database
	assert.False(t, s.HasAnyPurchase(ctx, 0))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasPurchased(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_items" JOIN payments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	option := uint(2)
	assert.False(t, s.HasPurchased(ctx, 4, 9, &option))

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payment_items" JOIN payments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	assert.True(t, s.HasPurchased(ctx, 4, 9, nil))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasCapabilityRereadsRole(t *testing.T) {
	s, mock := newMockStore(t)

	// token still says admin, the stored role was downgraded
	mock.ExpectQuery(`FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "role"}).AddRow(3, access.RoleCustomer))
	assert.False(t, s.HasCapability(ctx, access.NewViewer(3, access.RoleAdmin), access.CapManageOptions))

	assert.False(t, s.HasCapability(ctx, access.Anonymous(), access.CapManageOptions))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRestriction(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restricted_to"}).
			AddRow(7, `[{"product":"1"},{"product":"any"}]`))
	assert.Equal(t, restriction.Rules{{Product: "1"}, {Product: "any"}}, s.GetRestriction(ctx, 7))

	mock.ExpectQuery(`FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restricted_to"}).AddRow(8, `{broken`))
	assert.Empty(t, s.GetRestriction(ctx, 8))

	mock.ExpectQuery(`FROM "posts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "restricted_to"}))
	assert.Nil(t, s.GetRestriction(ctx, 9))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRestrictionRewritesReverseIndex(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "protected_posts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "protected_posts"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := s.SetRestriction(ctx, 7, restriction.Rules{{Product: "1"}, {Product: "any"}, {Product: "2", PriceOption: "3"}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRestrictionUnknownPost(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.SetRestriction(ctx, 70, restriction.Rules{{Product: "1"}})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRestrictionClearOnlyDeletes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "protected_posts"`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, s.SetRestriction(ctx, 7, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPermalinkUnknownProduct(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM "products"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	assert.Equal(t, "", s.Permalink(ctx, 5))

	mock.ExpectQuery(`FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).AddRow(5, "Guide", "guide"))
	assert.Equal(t, "https://shop.test/products/guide", s.Permalink(ctx, 5))

	require.NoError(t, mock.ExpectationsWereMet())
}

func expectStoredPayment(mock sqlmock.Sqlmock, status string) {
	mock.ExpectQuery(`FROM "payments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "stripe_session_id", "status"}).
			AddRow(7, "buyer@example.com", "cs_1", status))
	mock.ExpectQuery(`FROM "payment_items"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "payment_id", "product_id"}).AddRow(1, 7, 9))
}

func TestRecordPaymentCompletesPendingSession(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectStoredPayment(mock, billing.StatusPending)
	mock.ExpectExec(`UPDATE "payments" SET "status"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p := &billing.Payment{StripeSessionID: "cs_1", Email: "buyer@example.com", Status: billing.StatusComplete}
	created, err := s.RecordPayment(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(7), p.ID)
	assert.Equal(t, billing.StatusComplete, p.Status)
	require.Len(t, p.Items, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPaymentKnownSessionUnchanged(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	expectStoredPayment(mock, billing.StatusComplete)
	mock.ExpectCommit()

	created, err := s.RecordPayment(ctx, &billing.Payment{StripeSessionID: "cs_1", Status: billing.StatusComplete})
	require.NoError(t, err)
	assert.False(t, created)

	mock.ExpectBegin()
	expectStoredPayment(mock, billing.StatusPending)
	mock.ExpectCommit()

	p := &billing.Payment{StripeSessionID: "cs_1", Status: billing.StatusPending}
	created, err = s.RecordPayment(ctx, p)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, billing.StatusPending, p.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}
