package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestMemberService_Register(t *testing.T) {
	ctx := context.Background()
	req := RegisterMemberRequest{Name: "Ana Perez", PersonalID: "30111222"}

	t.Run("assigns next number", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("ExistsByPersonalID", mock.Anything, "30111222").Return(false, nil)
		repo.On("NextSequence", mock.Anything).Return(int64(4), nil)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*membership.Member")).Return(nil)

		resp, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "MBR-000004", resp.MembershipNumber)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("ExistsByPersonalID", mock.Anything, "30111222").Return(true, nil)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, membership.ErrDuplicateIdentifier)
		repo.AssertNotCalled(t, "NextSequence", mock.Anything)
	})

	t.Run("retries when the number was taken concurrently", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("ExistsByPersonalID", mock.Anything, "30111222").Return(false, nil)
		repo.On("NextSequence", mock.Anything).Return(int64(7), nil).Once()
		repo.On("NextSequence", mock.Anything).Return(int64(8), nil).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(m *membership.Member) bool { return m.Sequence == 7 })).
			Return(membership.ErrNumberTaken).Once()
		repo.On("Create", mock.Anything, mock.MatchedBy(func(m *membership.Member) bool { return m.Sequence == 8 })).
			Return(nil).Once()

		resp, err := svc.Register(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "MBR-000008", resp.MembershipNumber)
		repo.AssertExpectations(t)
	})

	t.Run("gives up after the configured attempts", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{RegistrationMaxAttempts: 2}, nil)

		repo.On("ExistsByPersonalID", mock.Anything, "30111222").Return(false, nil)
		repo.On("NextSequence", mock.Anything).Return(int64(1), nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(membership.ErrNumberTaken)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, membership.ErrNumberTaken)
		repo.AssertNumberOfCalls(t, "Create", 2)
	})

	t.Run("identifier clash at insert is not retried", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("ExistsByPersonalID", mock.Anything, "30111222").Return(false, nil)
		repo.On("NextSequence", mock.Anything).Return(int64(1), nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(membership.ErrDuplicateIdentifier)

		_, err := svc.Register(ctx, req)
		assert.ErrorIs(t, err, membership.ErrDuplicateIdentifier)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		_, err := svc.Register(ctx, RegisterMemberRequest{Name: "", PersonalID: "1"})
		assert.Equal(t, shared.KindValidation, shared.KindOf(err))
		repo.AssertExpectations(t)
	})
}

func TestMemberService_Update(t *testing.T) {
	ctx := context.Background()
	member, err := membership.NewMember("Ana", "1", 3)
	require.NoError(t, err)

	t.Run("identifier held by another member", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("FindByID", mock.Anything, member.ID).Return(member, nil)
		repo.On("ExistsByPersonalIDExcludingID", mock.Anything, "2", member.ID).Return(true, nil)

		_, err := svc.Update(ctx, member.ID, UpdateMemberRequest{Name: "Ana", PersonalID: "2"})
		assert.ErrorIs(t, err, membership.ErrDuplicateIdentifier)
	})

	t.Run("keeps number", func(t *testing.T) {
		repo := new(MockMemberRepository)
		svc := NewMemberService(repo, MemberServiceConfig{}, nil)

		repo.On("FindByID", mock.Anything, member.ID).Return(member, nil)
		repo.On("ExistsByPersonalIDExcludingID", mock.Anything, "5", member.ID).Return(false, nil)
		repo.On("Update", mock.Anything, member).Return(nil)

		resp, err := svc.Update(ctx, member.ID, UpdateMemberRequest{Name: "Ana Maria", PersonalID: "5"})
		require.NoError(t, err)
		assert.Equal(t, "MBR-000003", resp.MembershipNumber)
		assert.Equal(t, "Ana Maria", resp.Name)
	})
}

func TestMemberService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMemberRepository)
	svc := NewMemberService(repo, MemberServiceConfig{}, nil)
	member, err := membership.NewMember("Ana", "1", 1)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, member.ID).Return(member, nil)
	repo.On("Delete", mock.Anything, member.ID).Return(membership.ErrMemberInUse)

	assert.ErrorIs(t, svc.Delete(ctx, member.ID), membership.ErrMemberInUse)
}
