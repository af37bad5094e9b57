package lending

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/library/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Option configures a LendingService or FineService
type Option func(*options)

type options struct {
	now     func() time.Time
	metrics Metrics
}

// WithClock overrides the source of "today"
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics records lending outcomes
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LendingService is the lending engine. Every write runs as one transaction
// that keeps item state and open loans consistent: an item is loaned exactly
// when one open loan references it.
type LendingService struct {
	txScope  TransactionScope
	loanRepo lending.LoanRepository
	policy   lending.DamagePolicy
	now      func() time.Time
	metrics  Metrics
	logger   *zap.Logger
}

// NewLendingService creates the lending engine. loanRepo serves the read-only
// listings outside any transaction.
func NewLendingService(
	txScope TransactionScope,
	loanRepo lending.LoanRepository,
	policy lending.DamagePolicy,
	logger *zap.Logger,
	opts ...Option,
) *LendingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.Reason == "" {
		policy = lending.DefaultDamagePolicy(valueobject.DefaultCurrency)
	}
	o := buildOptions(opts)
	return &LendingService{
		txScope:  txScope,
		loanRepo: loanRepo,
		policy:   policy,
		now:      o.now,
		metrics:  o.metrics,
		logger:   logger,
	}
}

// CreateLoan lends an available item to a member
func (s *LendingService) CreateLoan(ctx context.Context, req CreateLoanRequest) (_ *LoanResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lending", "create_loan",
		telemetry.SpanAttrItemID, req.ItemID,
		telemetry.SpanAttrMemberID, req.MemberID,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	start, err := ParseDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	due, err := ParseDate("due_date", req.DueDate)
	if err != nil {
		return nil, err
	}
	loan, err := lending.NewLoan(req.ItemID, req.MemberID, start, due)
	if err != nil {
		return nil, err
	}

	var details *lending.LoanDetails
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.MemberRepo().FindByID(ctx, loan.MemberID); err != nil {
			return err
		}

		flipped, err := repos.ItemRepo().SetStateIf(ctx, loan.ItemID, catalog.ItemStateAvailable, catalog.ItemStateLoaned)
		if err != nil {
			return err
		}
		if !flipped {
			if _, err := repos.ItemRepo().FindByID(ctx, loan.ItemID); err != nil {
				return err
			}
			return lending.ErrItemUnavailable
		}

		if err := repos.LoanRepo().Create(ctx, loan); err != nil {
			return err
		}

		details, err = repos.LoanRepo().FindDetailsByID(ctx, loan.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, lending.ErrItemUnavailable) {
			s.metrics.LoanRejected(ctx, lending.ErrItemUnavailable.Code)
		}
		return nil, err
	}

	s.metrics.LoanCreated(ctx)
	s.logger.Info("Loan created",
		zap.String("loan_id", loan.ID.String()),
		zap.String("item_id", loan.ItemID.String()),
		zap.String("member_id", loan.MemberID.String()),
		zap.String("due_date", loan.DueDate.Format(DateLayout)),
	)
	response := ToLoanResponse(details, s.now())
	return &response, nil
}

// ReturnLoan closes an open loan dated today. A damaged return issues the
// policy fine in the same transaction.
func (s *LendingService) ReturnLoan(ctx context.Context, loanID uuid.UUID, req ReturnLoanRequest) (_ *LoanResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lending", "return_loan",
		telemetry.SpanAttrLoanID, loanID,
		telemetry.SpanAttrDamaged, req.Damaged,
	)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	today := shared.DateOf(s.now())

	var (
		details *lending.LoanDetails
		fine    *lending.Fine
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loan, err := repos.LoanRepo().FindByID(ctx, loanID)
		if err != nil {
			return err
		}
		if err := loan.Close(today, req.Damaged); err != nil {
			return err
		}

		closed, err := repos.LoanRepo().CloseIfOpen(ctx, loan)
		if err != nil {
			return err
		}
		if !closed {
			// lost a race with another return or a delete
			if _, err := repos.LoanRepo().FindByID(ctx, loanID); err != nil {
				return err
			}
			return lending.ErrAlreadyReturned
		}

		if err := repos.ItemRepo().SetState(ctx, loan.ItemID, catalog.ItemStateAvailable); err != nil {
			return err
		}

		if req.Damaged {
			fine, err = s.policy.FineFor(loan, today)
			if err != nil {
				return err
			}
			if err := repos.FineRepo().Create(ctx, fine); err != nil {
				return err
			}
		}

		details, err = repos.LoanRepo().FindDetailsByID(ctx, loanID)
		return err
	})
	if err != nil {
		if errors.Is(err, lending.ErrAlreadyReturned) {
			s.metrics.LoanRejected(ctx, lending.ErrAlreadyReturned.Code)
		}
		return nil, err
	}

	s.metrics.LoanReturned(ctx, req.Damaged)
	s.logger.Info("Loan returned",
		zap.String("loan_id", loanID.String()),
		zap.Bool("damaged", req.Damaged),
	)
	if fine != nil {
		s.metrics.FineIssued(ctx, fine.Amount)
		s.logger.Info("Fine issued",
			zap.String("fine_id", fine.ID.String()),
			zap.String("loan_id", loanID.String()),
			zap.String("amount", fine.Amount.String()),
		)
	}
	response := ToLoanResponse(details, s.now())
	return &response, nil
}

// DeleteLoan removes a loan. Deleting an open loan puts its item back on the
// shelf; a loan with fines cannot be deleted.
func (s *LendingService) DeleteLoan(ctx context.Context, loanID uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lending", "delete_loan", telemetry.SpanAttrLoanID, loanID)
	defer func() {
		telemetry.RecordError(span, err)
		span.End()
	}()

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loan, err := repos.LoanRepo().FindByID(ctx, loanID)
		if err != nil {
			return err
		}
		if loan.IsOpen() {
			// A return may close the loan, and a new loan may take the item,
			// between the read above and this delete.
			deleted, err := repos.LoanRepo().DeleteIfOpen(ctx, loanID)
			if err != nil {
				return err
			}
			if deleted {
				return repos.ItemRepo().SetState(ctx, loan.ItemID, catalog.ItemStateAvailable)
			}
		}
		return repos.LoanRepo().Delete(ctx, loanID)
	})
	if err != nil {
		return err
	}

	s.metrics.LoanDeleted(ctx)
	s.logger.Info("Loan deleted", zap.String("loan_id", loanID.String()))
	return nil
}

// GetLoan returns a loan with its display fields
func (s *LendingService) GetLoan(ctx context.Context, loanID uuid.UUID) (*LoanResponse, error) {
	details, err := s.loanRepo.FindDetailsByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(details, s.now())
	return &response, nil
}

// ListAllLoans returns every loan, most recent first
func (s *LendingService) ListAllLoans(ctx context.Context) ([]LoanResponse, error) {
	details, err := s.loanRepo.FindAllDetails(ctx)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(details, s.now()), nil
}

// ListOpenLoans returns open loans, soonest due first
func (s *LendingService) ListOpenLoans(ctx context.Context) ([]LoanResponse, error) {
	details, err := s.loanRepo.FindOpenDetails(ctx)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(details, s.now()), nil
}

// ListOverdueLoans returns open loans due before asOf, soonest due first.
// An empty asOf means today.
func (s *LendingService) ListOverdueLoans(ctx context.Context, filter OverdueFilter) ([]LoanResponse, error) {
	asOf, err := ParseDate("as_of", filter.AsOf)
	if err != nil {
		return nil, err
	}
	if asOf.IsZero() {
		asOf = s.now()
	}
	details, err := s.loanRepo.FindOverdueDetails(ctx, shared.DateOf(asOf))
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(details, asOf), nil
}
