package entities

import "github.com/shopspring/decimal"

type MonthSummary struct {
	Month         YearMonth       `json:"month"`
	TotalPayments int             `json:"totalPayments"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalDiscount decimal.Decimal `json:"totalDiscount"`
}

// RoundAmount rounds both sums to cents.
func (s *MonthSummary) RoundAmount() {
	s.TotalAmount = s.TotalAmount.Round(2)
	s.TotalDiscount = s.TotalDiscount.Round(2)
}
