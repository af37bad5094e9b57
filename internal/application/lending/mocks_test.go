package lending

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/catalog"
	"github.com/library/backend/internal/domain/lending"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/library/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) ExistsByCodeExcludingID(ctx context.Context, code string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Update(ctx context.Context, item *catalog.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockItemRepository) IsAvailable(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) SetState(ctx context.Context, id uuid.UUID, state catalog.ItemState) error {
	return m.Called(ctx, id, state).Error(0)
}

func (m *MockItemRepository) SetStateIf(ctx context.Context, id uuid.UUID, from, to catalog.ItemState) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Member), args.Error(1)
}

func (m *MockMemberRepository) FindAll(ctx context.Context, filter shared.Filter) ([]membership.Member, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]membership.Member), args.Error(1)
}

func (m *MockMemberRepository) ExistsByPersonalID(ctx context.Context, personalID string) (bool, error) {
	args := m.Called(ctx, personalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) ExistsByPersonalIDExcludingID(ctx context.Context, personalID string, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, personalID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) NextSequence(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) Create(ctx context.Context, member *membership.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *membership.Member) error {
	return m.Called(ctx, member).Error(0)
}

func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*lending.LoanDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.LoanDetails), args.Error(1)
}

func (m *MockLoanRepository) FindAllDetails(ctx context.Context) ([]lending.LoanDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).([]lending.LoanDetails), args.Error(1)
}

func (m *MockLoanRepository) FindOpenDetails(ctx context.Context) ([]lending.LoanDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).([]lending.LoanDetails), args.Error(1)
}

func (m *MockLoanRepository) FindOverdueDetails(ctx context.Context, asOf time.Time) ([]lending.LoanDetails, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]lending.LoanDetails), args.Error(1)
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *lending.Loan) error {
	return m.Called(ctx, loan).Error(0)
}

func (m *MockLoanRepository) CloseIfOpen(ctx context.Context, loan *lending.Loan) (bool, error) {
	args := m.Called(ctx, loan)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLoanRepository) DeleteIfOpen(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockFineRepository struct {
	mock.Mock
}

func (m *MockFineRepository) FindDetailsByID(ctx context.Context, id uuid.UUID) (*lending.FineDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.FineDetails), args.Error(1)
}

func (m *MockFineRepository) FindAllDetails(ctx context.Context) ([]lending.FineDetails, error) {
	args := m.Called(ctx)
	return args.Get(0).([]lending.FineDetails), args.Error(1)
}

func (m *MockFineRepository) FindDetailsByLoanID(ctx context.Context, loanID uuid.UUID) ([]lending.FineDetails, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).([]lending.FineDetails), args.Error(1)
}

func (m *MockFineRepository) Create(ctx context.Context, fine *lending.Fine) error {
	return m.Called(ctx, fine).Error(0)
}

func (m *MockFineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// recordingMetrics counts lending outcomes
type recordingMetrics struct {
	mu       sync.Mutex
	created  int
	returned int
	deleted  int
	fines    int
	rejected map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{rejected: map[string]int{}}
}

func (r *recordingMetrics) LoanCreated(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created++
}

func (r *recordingMetrics) LoanRejected(_ context.Context, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[code]++
}

func (r *recordingMetrics) LoanReturned(context.Context, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.returned++
}

func (r *recordingMetrics) LoanDeleted(context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
}

func (r *recordingMetrics) FineIssued(context.Context, valueobject.Money) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fines++
}
