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

// symbolService handles tracked symbol business logic.
type symbolService struct {
	db        *gorm.DB
	publisher ChangePublisher
}

// NewSymbolService creates a new SymbolServicer.
func NewSymbolService(db *gorm.DB, publisher ChangePublisher) SymbolServicer {
	return &symbolService{db: db, publisher: publisher}
}

// CreateSymbol starts tracking a security. The price is a manual entry
// and defaults to 0 when omitted.
func (s *symbolService) CreateSymbol(userID, name string, currentPrice float64) (*models.Symbol, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol name is required")
	}

	var count int64
	s.db.Model(&models.Symbol{}).Where("user_id = ? AND name = ?", userID, name).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateSymbol
	}

	symbol := &models.Symbol{UserID: userID, Name: name, CurrentPrice: currentPrice}
	if err := s.db.Create(symbol).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return symbol, nil
}

// GetUserSymbols returns a paginated list of the user's tracked symbols.
func (s *symbolService) GetUserSymbols(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Symbol], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Symbol{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var symbols []models.Symbol
	if err := base.Order("created_at ASC").Scopes(pagination.Paginate(page)).Find(&symbols).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(symbols, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetSymbolByID returns a symbol if it belongs to the user.
func (s *symbolService) GetSymbolByID(userID, symbolID string) (*models.Symbol, error) {
	var symbol models.Symbol
	if err := s.db.Where("id = ? AND user_id = ?", symbolID, userID).First(&symbol).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSymbolNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &symbol, nil
}

// UpdateSymbolPrice replaces the manually entered market price.
func (s *symbolService) UpdateSymbolPrice(userID, symbolID string, currentPrice float64) (*models.Symbol, error) {
	symbol, err := s.GetSymbolByID(userID, symbolID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(symbol).Update("current_price", currentPrice).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	symbol.CurrentPrice = currentPrice

	s.notify(userID)
	return symbol, nil
}

// DeleteSymbol stops tracking a security. Transactions and dividends that
// reference it by name become orphans and silently drop out of the
// aggregation.
func (s *symbolService) DeleteSymbol(userID, symbolID string) error {
	symbol, err := s.GetSymbolByID(userID, symbolID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(symbol).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return nil
}

func (s *symbolService) notify(userID string) {
	if s.publisher != nil {
		s.publisher.Publish(userID, hub.CollectionSymbols)
	}
}
