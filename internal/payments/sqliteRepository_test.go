package payments

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "payments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)

	cet := time.FixedZone("CET", 3600)
	at := time.Date(2024, time.February, 1, 0, 30, 0, 0, cet)
	saved := payment("p1", at, "a@x.com", item("tea", "10.00", "8.50"), item("cup", "5", "5"))

	require.NoError(t, repo.Save(ctx, saved))
	require.NoError(t, repo.Save(ctx, payment("p0", at.Add(-time.Hour), "b@x.com")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"p0", "p1"}, ids(all))

	got := all[1]
	assert.True(t, at.Equal(got.PaymentDate))
	_, offset := got.PaymentDate.Zone()
	assert.Equal(t, 3600, offset)
	assert.Equal(t, time.February, got.PaymentDate.Month())
	require.Len(t, got.PaymentItems, 2)
	assert.Equal(t, "tea", got.PaymentItems[0].Name)
	assert.True(t, decimal.RequireFromString("8.5").Equal(got.PaymentItems[0].FinalPrice))
	assert.Equal(t, "cup", got.PaymentItems[1].Name)
	assert.Empty(t, all[0].PaymentItems)
}

func TestSQLiteRepositorySaveReplacesItems(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)

	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 1), "a@x.com", item("a", "1", "1"), item("b", "2", "2"))))
	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 1), "a@x.com", item("c", "3", "3"))))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].PaymentItems, 1)
	assert.Equal(t, "c", all[0].PaymentItems[0].Name)

	require.NoError(t, repo.Purge(ctx))
	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestServiceOverSQLite(t *testing.T) {
	ctx := context.Background()
	repo := newSQLite(t)
	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 5), "a@x.com", item("tea", "10.00", "8.00"))))

	s := NewPaymentService(repo, nil)
	total, err := s.SumTotalForGivenMonth(ctx, january)
	require.NoError(t, err)
	assert.Equal(t, "8", total.String())
}
