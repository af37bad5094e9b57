package lending

import (
	"context"

	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/library/backend/internal/infrastructure/telemetry"
)

// Metrics receives lending outcomes. Implementations must be safe for
// concurrent use.
type Metrics interface {
	LoanCreated(ctx context.Context)
	LoanRejected(ctx context.Context, code string)
	LoanReturned(ctx context.Context, damaged bool)
	LoanDeleted(ctx context.Context)
	FineIssued(ctx context.Context, amount valueobject.Money)
}

type noopMetrics struct{}

func (noopMetrics) LoanCreated(context.Context)                    {}
func (noopMetrics) LoanRejected(context.Context, string)           {}
func (noopMetrics) LoanReturned(context.Context, bool)             {}
func (noopMetrics) LoanDeleted(context.Context)                    {}
func (noopMetrics) FineIssued(context.Context, valueobject.Money) {}

var _ Metrics = (*telemetry.LendingMetrics)(nil)
