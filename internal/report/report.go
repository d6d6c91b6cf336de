package report

import (
	"context"
	"errors"
	"fmt"
	"payment-reports/internal/payments"
	"payment-reports/internal/payments/entities"
)

var (
	ErrUnknownQuery  = errors.New("unknown query")
	ErrMissingParams = errors.New("missing query parameter")
)

const (
	QuerySortedDesc    = "sorted-desc"
	QueryCurrentMonth  = "current-month"
	QueryMonth         = "month"
	QueryLastDays      = "last-days"
	QueryOneItem       = "one-item"
	QueryProductsMonth = "products-current-month"
	QuerySumTotal      = "sum-total"
	QuerySumDiscount   = "sum-discount"
	QueryUserItems     = "user-items"
	QueryValueOver     = "value-over"
	QueryMonthSummary  = "month-summary"
)

// Queries lists every query name Run understands.
var Queries = []string{
	QuerySortedDesc, QueryCurrentMonth, QueryMonth, QueryLastDays, QueryOneItem, QueryProductsMonth,
	QuerySumTotal, QuerySumDiscount, QueryUserItems, QueryValueOver, QueryMonthSummary,
}

type Request struct {
	Query string
	Month string
	Days  *int
	Email string
	Over  *int
}

type Runner struct {
	service *payments.Service
}

func NewRunner(s *payments.Service) *Runner {
	return &Runner{service: s}
}

// Run executes the named query and returns a value ready for JSON encoding.
func (r *Runner) Run(ctx context.Context, req Request) (any, error) {
	switch req.Query {
	case QuerySortedDesc:
		return r.service.FindPaymentsSortedByDateDesc(ctx)
	case QueryCurrentMonth:
		return r.service.FindPaymentsForCurrentMonth(ctx)
	case QueryMonth:
		ym, err := month(req)
		if err != nil {
			return nil, err
		}
		return r.service.FindPaymentsForGivenMonth(ctx, ym)
	case QueryLastDays:
		if req.Days == nil {
			return nil, fmt.Errorf("%w: days", ErrMissingParams)
		}
		return r.service.FindPaymentsForGivenLastDays(ctx, *req.Days)
	case QueryOneItem:
		return r.service.FindPaymentsWithOnePaymentItem(ctx)
	case QueryProductsMonth:
		return r.service.FindProductsSoldInCurrentMonth(ctx)
	case QuerySumTotal:
		ym, err := month(req)
		if err != nil {
			return nil, err
		}
		return r.service.SumTotalForGivenMonth(ctx, ym)
	case QuerySumDiscount:
		ym, err := month(req)
		if err != nil {
			return nil, err
		}
		return r.service.SumDiscountForGivenMonth(ctx, ym)
	case QueryUserItems:
		if req.Email == "" {
			return nil, fmt.Errorf("%w: email", ErrMissingParams)
		}
		return r.service.GetPaymentItemsForUserWithEmail(ctx, req.Email)
	case QueryValueOver:
		if req.Over == nil {
			return nil, fmt.Errorf("%w: over", ErrMissingParams)
		}
		return r.service.FindPaymentsWithValueOver(ctx, *req.Over)
	case QueryMonthSummary:
		ym, err := month(req)
		if err != nil {
			return nil, err
		}
		return r.MonthSummary(ctx, ym)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuery, req.Query)
	}
}

// MonthSummary reports the count and sums of one month, all taken from the
// same snapshot of the source.
func (r *Runner) MonthSummary(ctx context.Context, ym entities.YearMonth) (entities.MonthSummary, error) {
	return r.service.SummarizeMonth(ctx, ym)
}

func month(req Request) (entities.YearMonth, error) {
	if req.Month == "" {
		return entities.YearMonth{}, fmt.Errorf("%w: month", ErrMissingParams)
	}
	return entities.ParseYearMonth(req.Month)
}
