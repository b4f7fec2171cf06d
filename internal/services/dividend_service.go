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

// dividendService handles dividend receipt business logic.
type dividendService struct {
	db        *gorm.DB
	publisher ChangePublisher
}

// NewDividendService creates a new DividendServicer.
func NewDividendService(db *gorm.DB, publisher ChangePublisher) DividendServicer {
	return &dividendService{db: db, publisher: publisher}
}

// CreateDividend records one dividend receipt. Like transactions, member
// and symbol are unvalidated name references, and the date is stored as
// an opaque string.
func (s *dividendService) CreateDividend(userID, member, symbol string, amount float64, date string) (*models.Dividend, error) {
	member = strings.TrimSpace(member)
	symbol = strings.TrimSpace(symbol)
	if member == "" || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member and symbol are required")
	}

	dividend := &models.Dividend{
		UserID:     userID,
		Member:     member,
		SymbolName: symbol,
		Amount:     amount,
		Date:       date,
	}
	if err := s.db.Create(dividend).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return dividend, nil
}

// GetUserDividends returns a paginated list of the user's dividends,
// optionally restricted to one symbol name.
func (s *dividendService) GetUserDividends(userID, symbol string, page pagination.PageRequest) (*pagination.PageResponse[models.Dividend], error) {
	page.Defaults()

	base := s.db.Model(&models.Dividend{}).Where("user_id = ?", userID)
	if symbol != "" {
		base = base.Where("symbol = ?", symbol)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var dividends []models.Dividend
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&dividends).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(dividends, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetDividendByID returns a dividend if it belongs to the user.
func (s *dividendService) GetDividendByID(userID, dividendID string) (*models.Dividend, error) {
	var dividend models.Dividend
	if err := s.db.Where("id = ? AND user_id = ?", dividendID, userID).First(&dividend).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDividendNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &dividend, nil
}

// UpdateDividend replaces every editable field of a dividend.
func (s *dividendService) UpdateDividend(userID, dividendID, member, symbol string, amount float64, date string) (*models.Dividend, error) {
	dividend, err := s.GetDividendByID(userID, dividendID)
	if err != nil {
		return nil, err
	}

	member = strings.TrimSpace(member)
	symbol = strings.TrimSpace(symbol)
	if member == "" || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member and symbol are required")
	}

	updates := map[string]interface{}{
		"member": member,
		"symbol": symbol,
		"amount": amount,
		"date":   date,
	}
	if err := s.db.Model(dividend).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	dividend.Member = member
	dividend.SymbolName = symbol
	dividend.Amount = amount
	dividend.Date = date

	s.notify(userID)
	return dividend, nil
}

// DeleteDividend removes a dividend receipt.
func (s *dividendService) DeleteDividend(userID, dividendID string) error {
	dividend, err := s.GetDividendByID(userID, dividendID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(dividend).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return nil
}

func (s *dividendService) notify(userID string) {
	if s.publisher != nil {
		s.publisher.Publish(userID, hub.CollectionDividends)
	}
}
