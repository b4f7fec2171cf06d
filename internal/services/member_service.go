package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "divitrack/internal/errors"
	"divitrack/internal/hub"
	"divitrack/internal/models"
	"divitrack/internal/pagination"
)

// memberService handles household member business logic.
type memberService struct {
	db        *gorm.DB
	publisher ChangePublisher
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB, publisher ChangePublisher) MemberServicer {
	return &memberService{db: db, publisher: publisher}
}

// CreateMember adds a household participant.
func (s *memberService) CreateMember(userID, name string) (*models.Member, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member name is required")
	}

	var count int64
	s.db.Model(&models.Member{}).Where("user_id = ? AND name = ?", userID, name).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateMember
	}

	member := &models.Member{UserID: userID, Name: name}
	if err := s.db.Create(member).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return member, nil
}

// GetUserMembers returns a paginated list of the user's members.
func (s *memberService) GetUserMembers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Member], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Member{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var members []models.Member
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(members, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetMemberByID returns a member if it belongs to the user.
func (s *memberService) GetMemberByID(userID, memberID string) (*models.Member, error) {
	var member models.Member
	if err := s.db.Where("id = ? AND user_id = ?", memberID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// DeleteMember removes a member. Transactions and dividends referencing
// the member by name are left untouched; referential integrity is
// deliberately unenforced and the aggregation engine tolerates dangling
// references.
func (s *memberService) DeleteMember(userID, memberID string) error {
	member, err := s.GetMemberByID(userID, memberID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(member).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return nil
}

func (s *memberService) notify(userID string) {
	if s.publisher != nil {
		s.publisher.Publish(userID, hub.CollectionMembers)
	}
}
