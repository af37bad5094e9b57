package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/library/backend/internal/domain/shared/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys.
var (
	AttrErrorCode = attribute.Key("error_code")
	AttrDamaged   = attribute.Key("damaged")
	AttrCurrency  = attribute.Key("currency")
)

// LendingMetrics counts lending outcomes. It satisfies lending.Metrics in
// the application layer.
type LendingMetrics struct {
	loansCreated  metric.Int64Counter
	loansRejected metric.Int64Counter
	loansReturned metric.Int64Counter
	loansDeleted  metric.Int64Counter
	finesIssued   metric.Int64Counter
	fineAmount    metric.Float64Counter
}

// NewLendingMetrics registers the lending instruments on meter.
func NewLendingMetrics(meter metric.Meter) (*LendingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &LendingMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
		unit string
	}{
		{&m.loansCreated, "library_loans_created_total", "Loans opened", "{loans}"},
		{&m.loansRejected, "library_loans_rejected_total", "Loan operations rejected by a lending rule", "{loans}"},
		{&m.loansReturned, "library_loans_returned_total", "Loans closed by a return", "{loans}"},
		{&m.loansDeleted, "library_loans_deleted_total", "Loans removed administratively", "{loans}"},
		{&m.finesIssued, "library_fines_issued_total", "Fines issued", "{fines}"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc), metric.WithUnit(c.unit))
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	amount, err := meter.Float64Counter("library_fine_amount_total",
		metric.WithDescription("Sum of issued fine amounts"), metric.WithUnit("{currency}"))
	if err != nil {
		return nil, fmt.Errorf("register library_fine_amount_total: %w", err)
	}
	m.fineAmount = amount
	return m, nil
}

// LoanCreated counts an opened loan
func (m *LendingMetrics) LoanCreated(ctx context.Context) {
	m.loansCreated.Add(ctx, 1)
}

// LoanRejected counts a rejected loan operation by error code
func (m *LendingMetrics) LoanRejected(ctx context.Context, code string) {
	m.loansRejected.Add(ctx, 1, metric.WithAttributes(AttrErrorCode.String(code)))
}

// LoanReturned counts a return
func (m *LendingMetrics) LoanReturned(ctx context.Context, damaged bool) {
	m.loansReturned.Add(ctx, 1, metric.WithAttributes(AttrDamaged.Bool(damaged)))
}

// LoanDeleted counts an administrative loan removal
func (m *LendingMetrics) LoanDeleted(ctx context.Context) {
	m.loansDeleted.Add(ctx, 1)
}

// FineIssued counts a fine and adds its amount
func (m *LendingMetrics) FineIssued(ctx context.Context, amount valueobject.Money) {
	currency := metric.WithAttributes(AttrCurrency.String(string(amount.Currency())))
	m.finesIssued.Add(ctx, 1, currency)
	m.fineAmount.Add(ctx, amount.Amount().InexactFloat64(), currency)
}
