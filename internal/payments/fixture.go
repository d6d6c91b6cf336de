package payments

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"payment-reports/internal/payments/entities"

	"github.com/google/uuid"
)

// ReadPayments decodes a JSON array of payments. Payments without an id get
// a random one.
func ReadPayments(r io.Reader) ([]entities.Payment, error) {
	var payments []entities.Payment
	if err := json.NewDecoder(r).Decode(&payments); err != nil {
		return nil, fmt.Errorf("error decoding payments: %w", err)
	}

	for i := range payments {
		if payments[i].ID == "" {
			payments[i].ID = uuid.NewString()
		}
	}
	return payments, nil
}

func ReadPaymentsFile(path string) ([]entities.Payment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening payments file: %w", err)
	}
	defer f.Close()

	return ReadPayments(f)
}
