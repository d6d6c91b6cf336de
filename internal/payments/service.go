package payments

import (
	"context"
	"fmt"
	"payment-reports/internal/clock"
	"payment-reports/internal/payments/entities"
	"payment-reports/internal/payments/repository"
	"slices"

	"github.com/shopspring/decimal"
)

// Service answers read-only questions about payments. Every query fetches a
// fresh snapshot from the source into a local variable, so a Service holds
// no mutable state and can be shared between callers.
type Service struct {
	paymentRepository repository.Source
	clock             clock.Clock
}

func NewPaymentService(repo repository.Source, c clock.Clock) *Service {
	return &Service{paymentRepository: repo, clock: c}
}

func (s *Service) findAll(ctx context.Context) ([]entities.Payment, error) {
	payments, err := s.paymentRepository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch payments: %w", err)
	}
	return payments, nil
}

func (s *Service) FindPaymentsSortedByDateDesc(ctx context.Context) ([]entities.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(payments)
	slices.SortStableFunc(sorted, func(a, b entities.Payment) int {
		return b.PaymentDate.Compare(a.PaymentDate)
	})
	return sorted, nil
}

func (s *Service) FindPaymentsForCurrentMonth(ctx context.Context) ([]entities.Payment, error) {
	return s.FindPaymentsForGivenMonth(ctx, entities.YearMonthOf(s.clock.Now()))
}

func (s *Service) FindPaymentsForGivenMonth(ctx context.Context, ym entities.YearMonth) ([]entities.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	return filter(payments, func(p entities.Payment) bool {
		return ym.Contains(p.PaymentDate)
	}), nil
}

// FindPaymentsForGivenLastDays keeps payments made at or after now minus
// days calendar days.
func (s *Service) FindPaymentsForGivenLastDays(ctx context.Context, days int) ([]entities.Payment, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	since := s.clock.Now().AddDate(0, 0, -days)
	return filter(payments, func(p entities.Payment) bool {
		return !p.PaymentDate.Before(since)
	}), nil
}

func (s *Service) FindPaymentsWithOnePaymentItem(ctx context.Context) (entities.PaymentSet, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	set := make(entities.PaymentSet)
	for _, p := range payments {
		if len(p.PaymentItems) == 1 {
			set.Add(p)
		}
	}
	return set, nil
}

func (s *Service) FindProductsSoldInCurrentMonth(ctx context.Context) (entities.ProductSet, error) {
	payments, err := s.FindPaymentsForCurrentMonth(ctx)
	if err != nil {
		return nil, err
	}

	products := make(entities.ProductSet)
	for _, item := range flattenItems(payments) {
		products.Add(item.Name)
	}
	return products, nil
}

func (s *Service) SumTotalForGivenMonth(ctx context.Context, ym entities.YearMonth) (decimal.Decimal, error) {
	payments, err := s.FindPaymentsForGivenMonth(ctx, ym)
	if err != nil {
		return decimal.Zero, err
	}

	return sum(fmt.Sprintf("sum total for %s", ym), flattenItems(payments), func(item entities.PaymentItem) decimal.Decimal {
		return item.FinalPrice
	})
}

func (s *Service) SumDiscountForGivenMonth(ctx context.Context, ym entities.YearMonth) (decimal.Decimal, error) {
	payments, err := s.FindPaymentsForGivenMonth(ctx, ym)
	if err != nil {
		return decimal.Zero, err
	}

	return sum(fmt.Sprintf("sum discount for %s", ym), flattenItems(payments), entities.PaymentItem.Discount)
}

// SummarizeMonth computes the count and both sums from one fetch of the
// source. A month without items reports zero sums instead of failing.
func (s *Service) SummarizeMonth(ctx context.Context, ym entities.YearMonth) (entities.MonthSummary, error) {
	summary := entities.MonthSummary{Month: ym, TotalAmount: decimal.Zero, TotalDiscount: decimal.Zero}

	found, err := s.FindPaymentsForGivenMonth(ctx, ym)
	if err != nil {
		return summary, err
	}
	summary.TotalPayments = len(found)

	for _, item := range flattenItems(found) {
		summary.TotalAmount = summary.TotalAmount.Add(item.FinalPrice)
		summary.TotalDiscount = summary.TotalDiscount.Add(item.Discount())
	}
	summary.RoundAmount()
	return summary, nil
}

// GetPaymentItemsForUserWithEmail matches email exactly, case included.
func (s *Service) GetPaymentItemsForUserWithEmail(ctx context.Context, email string) ([]entities.PaymentItem, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	return flattenItems(filter(payments, func(p entities.Payment) bool {
		return p.User.Email == email
	})), nil
}

// FindPaymentsWithValueOver keeps payments whose total is strictly greater
// than value. A payment with no items has no total and fails the whole call.
func (s *Service) FindPaymentsWithValueOver(ctx context.Context, value int) (entities.PaymentSet, error) {
	payments, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	threshold := decimal.NewFromInt(int64(value))
	set := make(entities.PaymentSet)
	for _, p := range payments {
		total, err := p.Total()
		if err != nil {
			return nil, &entities.EmptyReductionError{Op: fmt.Sprintf("payments over %d", value), PaymentID: p.ID}
		}
		if total.GreaterThan(threshold) {
			set.Add(p)
		}
	}
	return set, nil
}

func filter(payments []entities.Payment, keep func(entities.Payment) bool) []entities.Payment {
	out := make([]entities.Payment, 0, len(payments))
	for _, p := range payments {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func flattenItems(payments []entities.Payment) []entities.PaymentItem {
	items := make([]entities.PaymentItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, p.PaymentItems...)
	}
	return items
}

func sum(op string, items []entities.PaymentItem, value func(entities.PaymentItem) decimal.Decimal) (decimal.Decimal, error) {
	if len(items) == 0 {
		return decimal.Zero, &entities.EmptyReductionError{Op: op}
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(value(item))
	}
	return total, nil
}
