package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// FineService is the fine ledger
type FineService struct {
	fineRepo lending.FineRepository
	loanRepo lending.LoanRepository
	currency valueobject.Currency
	now      func() time.Time
	metrics  Metrics
	logger   *zap.Logger
}

// NewFineService creates a new FineService
func NewFineService(
	fineRepo lending.FineRepository,
	loanRepo lending.LoanRepository,
	currency valueobject.Currency,
	logger *zap.Logger,
	opts ...Option,
) *FineService {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	o := buildOptions(opts)
	return &FineService{
		fineRepo: fineRepo,
		loanRepo: loanRepo,
		currency: currency,
		now:      o.now,
		metrics:  o.metrics,
		logger:   logger,
	}
}

// Record inserts a fine against a loan. The loan is not read first; an
// unknown loan is rejected by the storage foreign key.
func (s *FineService) Record(ctx context.Context, req RecordFineRequest) (*FineResponse, error) {
	amount, err := valueobject.NewMoneyFromString(req.Amount, s.currency)
	if err != nil {
		return nil, shared.NewValidationError("amount must be a decimal number")
	}
	issuedOn, err := ParseDate("issued_on", req.IssuedOn)
	if err != nil {
		return nil, err
	}
	if issuedOn.IsZero() {
		issuedOn = s.now()
	}

	fine, err := lending.NewFine(req.LoanID, req.Reason, amount, issuedOn)
	if err != nil {
		return nil, err
	}
	if err := s.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}

	s.metrics.FineIssued(ctx, fine.Amount)
	s.logger.Info("Fine recorded",
		zap.String("fine_id", fine.ID.String()),
		zap.String("loan_id", fine.LoanID.String()),
		zap.String("amount", fine.Amount.String()),
	)
	return s.GetByID(ctx, fine.ID)
}

// GetByID returns a fine with its loan, item and member fields
func (s *FineService) GetByID(ctx context.Context, id uuid.UUID) (*FineResponse, error) {
	details, err := s.fineRepo.FindDetailsByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToFineResponse(details)
	return &response, nil
}

// List returns all fines, most recent first
func (s *FineService) List(ctx context.Context) ([]FineResponse, error) {
	details, err := s.fineRepo.FindAllDetails(ctx)
	if err != nil {
		return nil, err
	}
	return ToFineResponses(details), nil
}

// ListByLoan returns the fines of one loan
func (s *FineService) ListByLoan(ctx context.Context, loanID uuid.UUID) ([]FineResponse, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		return nil, err
	}
	details, err := s.fineRepo.FindDetailsByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToFineResponses(details), nil
}

// Delete removes a fine
func (s *FineService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.fineRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Fine deleted", zap.String("fine_id", id.String()))
	return nil
}
