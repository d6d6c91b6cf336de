package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	Email string `json:"email"`
}

type PaymentItem struct {
	Name         string          `json:"name"`
	RegularPrice decimal.Decimal `json:"regularPrice"`
	FinalPrice   decimal.Decimal `json:"finalPrice"`
}

// Discount returns how much was taken off the regular price.
func (i PaymentItem) Discount() decimal.Decimal {
	return i.RegularPrice.Sub(i.FinalPrice)
}

// Payment is identified by ID; two payments with the same ID are the same
// element of a PaymentSet.
type Payment struct {
	ID           string        `json:"id"`
	PaymentDate  time.Time     `json:"paymentDate"`
	User         User          `json:"user"`
	PaymentItems []PaymentItem `json:"paymentItems"`
}

func NewPayment(paymentDate time.Time, user User, items ...PaymentItem) Payment {
	return Payment{
		ID:           uuid.NewString(),
		PaymentDate:  paymentDate,
		User:         user,
		PaymentItems: items,
	}
}

// Total sums the final prices of the payment items. A payment without items
// has no total and reports ErrNoElements.
func (p Payment) Total() (decimal.Decimal, error) {
	if len(p.PaymentItems) == 0 {
		return decimal.Zero, ErrNoElements
	}

	total := decimal.Zero
	for _, item := range p.PaymentItems {
		total = total.Add(item.FinalPrice)
	}
	return total, nil
}
