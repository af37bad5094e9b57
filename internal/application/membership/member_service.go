package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/library/backend/internal/domain/membership"
	"github.com/library/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultRegistrationMaxAttempts bounds the number-collision retries of Register
const DefaultRegistrationMaxAttempts = 5

// MemberServiceConfig contains configuration for the member service
type MemberServiceConfig struct {
	RegistrationMaxAttempts int
}

// MemberService handles the member registry
type MemberService struct {
	memberRepo membership.MemberRepository
	config     MemberServiceConfig
	logger     *zap.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo membership.MemberRepository, config MemberServiceConfig, logger *zap.Logger) *MemberService {
	if config.RegistrationMaxAttempts <= 0 {
		config.RegistrationMaxAttempts = DefaultRegistrationMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberService{
		memberRepo: memberRepo,
		config:     config,
		logger:     logger,
	}
}

// Register creates a member with the next membership number. The number is
// claimed by inserting under the unique sequence constraint; when a concurrent
// registration wins the same number the insert is retried with a fresh one.
func (s *MemberService) Register(ctx context.Context, req RegisterMemberRequest) (*MemberResponse, error) {
	// validated with a placeholder sequence before touching storage
	candidate, err := membership.NewMember(req.Name, req.PersonalID, 1)
	if err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByPersonalID(ctx, candidate.PersonalID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, membership.ErrDuplicateIdentifier
	}

	for attempt := 1; attempt <= s.config.RegistrationMaxAttempts; attempt++ {
		seq, err := s.memberRepo.NextSequence(ctx)
		if err != nil {
			return nil, err
		}
		member, err := membership.NewMember(req.Name, req.PersonalID, seq)
		if err != nil {
			return nil, err
		}

		err = s.memberRepo.Create(ctx, member)
		if err == nil {
			s.logger.Info("Member registered",
				zap.String("member_id", member.ID.String()),
				zap.String("membership_number", member.Number),
				zap.Int("attempt", attempt),
			)
			response := ToMemberResponse(member)
			return &response, nil
		}
		if !errors.Is(err, membership.ErrNumberTaken) {
			return nil, err
		}
		s.logger.Debug("Membership number taken, retrying",
			zap.String("membership_number", member.Number),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("assign membership number: gave up after %d attempts: %w",
		s.config.RegistrationMaxAttempts, membership.ErrNumberTaken)
}

// GetByID returns a member
func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMemberResponse(member)
	return &response, nil
}

// List returns members in registration order
func (s *MemberService) List(ctx context.Context, filter MemberListFilter) ([]MemberResponse, error) {
	f := shared.Filter{}
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		f = shared.Filter{Offset: (page - 1) * filter.PageSize, Limit: filter.PageSize}
	}
	members, err := s.memberRepo.FindAll(ctx, f.Normalize())
	if err != nil {
		return nil, err
	}
	return ToMemberResponses(members), nil
}

// Update changes name and personal identifier; the membership number stays
func (s *MemberService) Update(ctx context.Context, id uuid.UUID, req UpdateMemberRequest) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := member.Update(req.Name, req.PersonalID); err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByPersonalIDExcludingID(ctx, member.PersonalID, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, membership.ErrDuplicateIdentifier
	}

	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	response := ToMemberResponse(member)
	return &response, nil
}

// Delete removes a member that no loan references
func (s *MemberService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.memberRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Member deleted", zap.String("member_id", id.String()))
	return nil
}
