package repository

import (
	"context"
	"payment-reports/internal/payments/entities"
)

// Source hands out the full payment record set. No ordering is implied.
type Source interface {
	FindAll(ctx context.Context) ([]entities.Payment, error)
}

// Payment is a Source that can also be written to by the loader.
type Payment interface {
	Source
	Save(ctx context.Context, payment entities.Payment) error
	Purge(ctx context.Context) error
	Close() error
}
