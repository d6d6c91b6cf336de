package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"payment-reports/internal/payments/entities"

	"github.com/redis/go-redis/v9"
)

const (
	paymentKeyPrefix = "payment:"
	paymentDateIndex = "payment:index_by_date"
)

type PaymentRedisRepository struct {
	client *redis.Client
}

func NewPaymentRedisRepository(client *redis.Client) *PaymentRedisRepository {
	return &PaymentRedisRepository{client: client}
}

func paymentKey(id string) string {
	return paymentKeyPrefix + id
}

// Save stores the payment as JSON and indexes it by date in a sorted set.
func (r *PaymentRedisRepository) Save(ctx context.Context, payment entities.Payment) error {
	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("error encoding payment %s: %w", payment.ID, err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, paymentKey(payment.ID), data, 0)
		pipe.ZAdd(ctx, paymentDateIndex, redis.Z{
			Score:  float64(payment.PaymentDate.Unix()),
			Member: payment.ID,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("error saving payment %s: %w", payment.ID, err)
	}
	return nil
}

func (r *PaymentRedisRepository) FindAll(ctx context.Context) ([]entities.Payment, error) {
	ids, err := r.client.ZRange(ctx, paymentDateIndex, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("error reading payment index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = paymentKey(id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}

	payments := make([]entities.Payment, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			// indexed but missing
			continue
		}
		var payment entities.Payment
		if err := json.Unmarshal([]byte(data), &payment); err != nil {
			return nil, fmt.Errorf("error decoding payment %s: %w", ids[i], err)
		}
		payments = append(payments, payment)
	}
	entities.SortByDate(payments)
	return payments, nil
}

// Purge removes every payment key and the date index.
func (r *PaymentRedisRepository) Purge(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, paymentKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning payment keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("error purging payments: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (r *PaymentRedisRepository) Close() error {
	return nil
}
