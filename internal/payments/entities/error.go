package entities

import (
	"errors"
	"fmt"
)

// ErrNoElements is returned when a sum is requested over nothing.
var ErrNoElements = errors.New("no elements to aggregate")

type EmptyReductionError struct {
	Op        string
	PaymentID string
}

func (e *EmptyReductionError) Error() string {
	if e.PaymentID != "" {
		return fmt.Sprintf("%s: payment %s: %v", e.Op, e.PaymentID, ErrNoElements)
	}
	return fmt.Sprintf("%s: %v", e.Op, ErrNoElements)
}

func (e *EmptyReductionError) Unwrap() error {
	return ErrNoElements
}
