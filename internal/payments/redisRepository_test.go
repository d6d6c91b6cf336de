package payments

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*PaymentRedisRepository, *miniredis.Miniredis) {
	t.Helper()

	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewPaymentRedisRepository(client), m
}

func TestRedisRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, m := newRedis(t)

	cet := time.FixedZone("CET", 3600)
	at := time.Date(2024, time.February, 1, 0, 30, 0, 0, cet)
	require.NoError(t, repo.Save(ctx, payment("p1", at, "a@x.com", item("tea", "10.005", "8.0001"))))
	require.NoError(t, repo.Save(ctx, payment("p0", at.Add(-time.Hour), "b@x.com")))

	assert.True(t, m.Exists("payment:p1"))
	members, err := m.ZMembers(paymentDateIndex)
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1"}, members)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p0", "p1"}, ids(all))

	got := all[1]
	assert.True(t, at.Equal(got.PaymentDate))
	assert.Equal(t, time.February, got.PaymentDate.Month())
	require.Len(t, got.PaymentItems, 1)
	assert.True(t, decimal.RequireFromString("8.0001").Equal(got.PaymentItems[0].FinalPrice))
}

func TestRedisRepositorySaveReplaces(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRedis(t)

	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 1), "a@x.com", item("a", "1", "1"))))
	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 2), "c@x.com")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c@x.com", all[0].User.Email)
	assert.Empty(t, all[0].PaymentItems)
}

func TestRedisRepositorySkipsIndexedButMissing(t *testing.T) {
	ctx := context.Background()
	repo, m := newRedis(t)

	require.NoError(t, repo.Save(ctx, payment("p1", date(time.January, 1), "a@x.com")))
	require.NoError(t, repo.Save(ctx, payment("p2", date(time.January, 2), "a@x.com")))
	m.Del("payment:p1")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, ids(all))
}

func TestRedisRepositoryPurge(t *testing.T) {
	ctx := context.Background()
	repo, m := newRedis(t)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Save(ctx, payment(id, date(time.January, i+1), "a@x.com")))
	}
	require.NoError(t, m.Set("unrelated", "keep"))

	require.NoError(t, repo.Purge(ctx))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.False(t, m.Exists(paymentDateIndex))
	assert.True(t, m.Exists("unrelated"))

	require.NoError(t, repo.Purge(ctx))
}
