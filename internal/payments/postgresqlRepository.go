package payments

import (
	"context"
	"errors"
	"fmt"
	"payment-reports/internal/payments/entities"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PaymentPostgresRepository struct {
	pool *pgxpool.Pool
	loc  *time.Location
}

// NewPaymentPostgresRepository connects to connString. Timestamps read back
// are converted to loc, since timestamptz does not keep the original zone.
func NewPaymentPostgresRepository(ctx context.Context, connString string, loc *time.Location) (*PaymentPostgresRepository, error) {
	if connString == "" {
		return nil, errors.New("postgres connection string is empty")
	}
	if loc == nil {
		loc = time.UTC
	}

	dbpool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("error pinging PostgreSQL: %w", err)
	}

	return &PaymentPostgresRepository{pool: dbpool, loc: loc}, nil
}

func (r *PaymentPostgresRepository) Close() error {
	if r.pool != nil {
		r.pool.Close()
	}
	return nil
}

func (r *PaymentPostgresRepository) Save(ctx context.Context, payment entities.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (email) VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`, payment.User.Email)
	if err != nil {
		return fmt.Errorf("error saving user %s: %w", payment.User.Email, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (id, user_email, payment_date)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET user_email = EXCLUDED.user_email,
		    payment_date = EXCLUDED.payment_date
	`, payment.ID, payment.User.Email, payment.PaymentDate)
	if err != nil {
		return fmt.Errorf("error saving payment %s: %w", payment.ID, err)
	}

	if _, err = tx.Exec(ctx, `DELETE FROM payment_items WHERE payment_id = $1`, payment.ID); err != nil {
		return fmt.Errorf("error clearing items of payment %s: %w", payment.ID, err)
	}

	batch := &pgx.Batch{}
	for i, item := range payment.PaymentItems {
		batch.Queue(`
			INSERT INTO payment_items (payment_id, position, name, regular_price, final_price)
			VALUES ($1, $2, $3, $4::numeric, $5::numeric)
		`, payment.ID, i, item.Name, item.RegularPrice.String(), item.FinalPrice.String())
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("error saving items of payment %s: %w", payment.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (r *PaymentPostgresRepository) FindAll(ctx context.Context) ([]entities.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.user_email, p.payment_date,
		       i.name, i.regular_price::text, i.final_price::text
		FROM payments p
		LEFT JOIN payment_items i ON i.payment_id = p.id
		ORDER BY p.payment_date ASC, p.id ASC, i.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}
	defer rows.Close()

	var results []entities.Payment
	for rows.Next() {
		var (
			id, email      string
			paymentDate    time.Time
			name           *string
			regular, final *string
		)
		if err := rows.Scan(&id, &email, &paymentDate, &name, &regular, &final); err != nil {
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}

		if len(results) == 0 || results[len(results)-1].ID != id {
			results = append(results, entities.Payment{
				ID:          id,
				PaymentDate: paymentDate.In(r.loc),
				User:        entities.User{Email: email},
			})
		}
		if name == nil {
			continue
		}

		item := entities.PaymentItem{Name: *name}
		if item.RegularPrice, err = decimal.NewFromString(*regular); err != nil {
			return nil, fmt.Errorf("error parsing regular price of payment %s: %w", id, err)
		}
		if item.FinalPrice, err = decimal.NewFromString(*final); err != nil {
			return nil, fmt.Errorf("error parsing final price of payment %s: %w", id, err)
		}
		last := &results[len(results)-1]
		last.PaymentItems = append(last.PaymentItems, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}

	return results, nil
}

func (r *PaymentPostgresRepository) Purge(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE payment_items, payments, users`); err != nil {
		return fmt.Errorf("error purging payments: %w", err)
	}
	return nil
}
