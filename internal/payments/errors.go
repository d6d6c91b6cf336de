package payments

import "payment-reports/internal/payments/entities"

// ErrNoElements is returned by sum-style queries that have nothing to add up.
var ErrNoElements = entities.ErrNoElements
