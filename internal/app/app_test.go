package app

import (
	"context"
	"os"
	"path/filepath"
	"payment-reports/internal/config"
	"payment-reports/internal/payments/entities"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
	{"id": "p1", "paymentDate": "2024-01-05T10:00:00Z", "user": {"email": "a@x.com"},
	 "paymentItems": [{"name": "tea", "regularPrice": "10", "finalPrice": "9"}]},
	{"id": "p2", "paymentDate": "2024-02-01T10:00:00Z", "user": {"email": "b@x.com"},
	 "paymentItems": [{"name": "cup", "regularPrice": "5", "finalPrice": "5"}]}
]`

func TestNewMemoryFromFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.json")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	a, err := New(context.Background(), &config.Config{Source: config.SourceMemory, PaymentsFile: path, TimeZone: "UTC"})
	require.NoError(t, err)
	defer a.Close()

	total, err := a.Service.SumTotalForGivenMonth(context.Background(), entities.YearMonth{Year: 2024, Month: time.January})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(total))
}

func TestImportIntoSQLite(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Source: config.SourceSQLite, SQLitePath: filepath.Join(t.TempDir(), "payments.db"), TimeZone: "UTC"}

	a, err := New(ctx, cfg)
	require.NoError(t, err)
	defer a.Close()

	first := entities.Payment{ID: "p1", PaymentDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), User: entities.User{Email: "a@x.com"}}
	second := entities.Payment{ID: "p2", PaymentDate: time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC), User: entities.User{Email: "a@x.com"}}

	require.NoError(t, a.Import(ctx, []entities.Payment{first}, false))
	require.NoError(t, a.Import(ctx, []entities.Payment{second}, true))

	all, err := a.Store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p2", all[0].ID)
}

func TestImportIntoRedisUnderLock(t *testing.T) {
	ctx := context.Background()
	m := miniredis.RunT(t)

	a, err := New(ctx, &config.Config{Source: config.SourceRedis, RedisURL: m.Addr(), TimeZone: "UTC"})
	require.NoError(t, err)
	defer a.Close()

	p := entities.Payment{ID: "p1", PaymentDate: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC), User: entities.User{Email: "a@x.com"}}
	require.NoError(t, a.Import(ctx, []entities.Payment{p}, true))

	all, err := a.Store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p1", all[0].ID)
	assert.False(t, m.Exists("payments:import"), "lock must be released")
}

func TestNewUnknownSource(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Source: "mongo", TimeZone: "UTC"})
	assert.Error(t, err)
}
