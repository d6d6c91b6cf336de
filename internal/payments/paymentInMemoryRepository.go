package payments

import (
	"context"
	"hash/fnv"
	"payment-reports/internal/payments/entities"
	"slices"
	"sync"
)

const shardCount = 64

type paymentShard struct {
	sync.RWMutex
	store map[string]entities.Payment
}

type InMemoryPaymentDB struct {
	shards [shardCount]*paymentShard
}

func NewInMemoryPaymentDB(seed ...entities.Payment) *InMemoryPaymentDB {
	db := &InMemoryPaymentDB{}
	for i := 0; i < shardCount; i++ {
		db.shards[i] = &paymentShard{
			store: make(map[string]entities.Payment),
		}
	}
	for _, p := range seed {
		db.put(p)
	}
	return db
}

func (db *InMemoryPaymentDB) getShard(key string) *paymentShard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return db.shards[h.Sum32()%shardCount]
}

func (db *InMemoryPaymentDB) put(payment entities.Payment) {
	shard := db.getShard(payment.ID)
	shard.Lock()
	shard.store[payment.ID] = payment
	shard.Unlock()
}

// Save inserts or replaces the payment with the same ID.
func (db *InMemoryPaymentDB) Save(ctx context.Context, payment entities.Payment) error {
	db.put(payment)
	return nil
}

// FindAll returns a copy of every stored payment ordered by date, then ID.
func (db *InMemoryPaymentDB) FindAll(ctx context.Context) ([]entities.Payment, error) {
	var payments []entities.Payment
	for _, shard := range db.shards {
		shard.RLock()
		for _, p := range shard.store {
			p.PaymentItems = slices.Clone(p.PaymentItems)
			payments = append(payments, p)
		}
		shard.RUnlock()
	}

	entities.SortByDate(payments)
	return payments, nil
}

// Purge empties the shards in place.
func (db *InMemoryPaymentDB) Purge(ctx context.Context) error {
	for _, shard := range db.shards {
		shard.Lock()
		for k := range shard.store {
			delete(shard.store, k)
		}
		shard.Unlock()
	}
	return nil
}

func (db *InMemoryPaymentDB) Close() error {
	return nil
}
