package payments

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"payment-reports/internal/payments/entities"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		user_email TEXT NOT NULL,
		payment_date TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS payment_items (
		payment_id TEXT NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		regular_price TEXT NOT NULL,
		final_price TEXT NOT NULL,
		PRIMARY KEY (payment_id, position)
	);
`

type SQLiteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewSQLiteRepository(dataSourceName string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating sqlite schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save replaces the payment row and all of its items.
func (r *SQLiteRepository) Save(ctx context.Context, p entities.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO payments (id, user_email, payment_date)
		VALUES (?, ?, ?)
	`, p.ID, p.User.Email, p.PaymentDate.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("error saving payment %s: %w", p.ID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM payment_items WHERE payment_id = ?`, p.ID); err != nil {
		return fmt.Errorf("error clearing items of payment %s: %w", p.ID, err)
	}

	for i, item := range p.PaymentItems {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO payment_items (payment_id, position, name, regular_price, final_price)
			VALUES (?, ?, ?, ?, ?)
		`, p.ID, i, item.Name, item.RegularPrice.String(), item.FinalPrice.String())
		if err != nil {
			return fmt.Errorf("error saving item %d of payment %s: %w", i, p.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindAll(ctx context.Context) ([]entities.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_email, payment_date
		FROM payments
	`)
	if err != nil {
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}

	var payments []entities.Payment
	index := make(map[string]int)
	for rows.Next() {
		var p entities.Payment
		var paymentDate string
		if err := rows.Scan(&p.ID, &p.User.Email, &paymentDate); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("error scanning payment: %w", err)
		}
		if p.PaymentDate, err = time.Parse(time.RFC3339Nano, paymentDate); err != nil {
			closeRows(rows)
			return nil, fmt.Errorf("error parsing date of payment %s: %w", p.ID, err)
		}
		index[p.ID] = len(payments)
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		closeRows(rows)
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}
	closeRows(rows)

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT payment_id, name, regular_price, final_price
		FROM payment_items
		ORDER BY payment_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("error fetching payment items: %w", err)
	}
	defer closeRows(itemRows)

	for itemRows.Next() {
		var paymentID, regular, final string
		var item entities.PaymentItem
		if err := itemRows.Scan(&paymentID, &item.Name, &regular, &final); err != nil {
			return nil, fmt.Errorf("error scanning payment item: %w", err)
		}
		if item.RegularPrice, err = decimal.NewFromString(regular); err != nil {
			return nil, fmt.Errorf("error parsing regular price of payment %s: %w", paymentID, err)
		}
		if item.FinalPrice, err = decimal.NewFromString(final); err != nil {
			return nil, fmt.Errorf("error parsing final price of payment %s: %w", paymentID, err)
		}
		if i, ok := index[paymentID]; ok {
			payments[i].PaymentItems = append(payments[i].PaymentItems, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error fetching payment items: %w", err)
	}

	entities.SortByDate(payments)
	return payments, nil
}

func (r *SQLiteRepository) Purge(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, `DELETE FROM payment_items`); err != nil {
		return fmt.Errorf("error purging payment items: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payments`); err != nil {
		return fmt.Errorf("error purging payments: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("error closing rows", "error", err)
	}
}
