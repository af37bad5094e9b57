package lending

import (
	"context"

	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/membership"
)

// TransactionScope provides transactional access to the repositories the
// lending engine writes through. Every repository handed to fn shares the
// same database transaction; a returned error rolls all of it back.
type TransactionScope interface {
	// Execute runs fn within a database transaction
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the item repository scoped to the current transaction
	ItemRepo() catalog.ItemRepository
	// MemberRepo returns the member repository scoped to the current transaction
	MemberRepo() membership.MemberRepository
	// LoanRepo returns the loan repository scoped to the current transaction
	LoanRepo() lending.LoanRepository
	// FineRepo returns the fine repository scoped to the current transaction
	FineRepo() lending.FineRepository
}

// NoOpTransactionScope runs the function directly against the given
// repositories. Useful for unit tests with mocked repositories.
type NoOpTransactionScope struct {
	itemRepo   catalog.ItemRepository
	memberRepo membership.MemberRepository
	loanRepo   lending.LoanRepository
	fineRepo   lending.FineRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	itemRepo catalog.ItemRepository,
	memberRepo membership.MemberRepository,
	loanRepo lending.LoanRepository,
	fineRepo lending.FineRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:   itemRepo,
		memberRepo: memberRepo,
		loanRepo:   loanRepo,
		fineRepo:   fineRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ItemRepo() catalog.ItemRepository        { return s.itemRepo }
func (s *NoOpTransactionScope) MemberRepo() membership.MemberRepository { return s.memberRepo }
func (s *NoOpTransactionScope) LoanRepo() lending.LoanRepository        { return s.loanRepo }
func (s *NoOpTransactionScope) FineRepo() lending.FineRepository        { return s.fineRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
