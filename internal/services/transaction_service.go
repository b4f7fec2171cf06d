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

// transactionService handles buy/sell lot business logic.
type transactionService struct {
	db        *gorm.DB
	publisher ChangePublisher
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, publisher ChangePublisher) TransactionServicer {
	return &transactionService{db: db, publisher: publisher}
}

// CreateTransaction records one buy (positive cost/shares) or sell
// (negative cost/shares) lot. Member and symbol are free-form name
// references; they are not validated against the member and symbol
// collections because the store never enforces referential integrity.
func (s *transactionService) CreateTransaction(userID, member, symbol string, cost, shares float64, date string) (*models.Transaction, error) {
	member = strings.TrimSpace(member)
	symbol = strings.TrimSpace(symbol)
	if member == "" || symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "member and symbol are required")
	}

	tx := &models.Transaction{
		UserID:     userID,
		Member:     member,
		SymbolName: symbol,
		Cost:       cost,
		Shares:     shares,
		Date:       date,
	}
	if err := s.db.Create(tx).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return tx, nil
}

// GetUserTransactions returns a paginated list of the user's
// transactions, optionally restricted to one symbol name.
func (s *transactionService) GetUserTransactions(userID, symbol string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if symbol != "" {
		base = base.Where("symbol = ?", symbol)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date DESC, created_at DESC").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// UpdateTransaction replaces every editable field of a lot.
func (s *transactionService) UpdateTransaction(userID, transactionID, member, symbol string, cost, shares float64, date string) (*models.Transaction, error) {
	tx, err := s.GetTransactionByID(userID, transactionID)
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
		"cost":   cost,
		"shares": shares,
		"date":   date,
	}
	if err := s.db.Model(tx).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	tx.Member = member
	tx.SymbolName = symbol
	tx.Cost = cost
	tx.Shares = shares
	tx.Date = date

	s.notify(userID)
	return tx, nil
}

// DeleteTransaction removes a lot.
func (s *transactionService) DeleteTransaction(userID, transactionID string) error {
	tx, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(tx).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.notify(userID)
	return nil
}

func (s *transactionService) notify(userID string) {
	if s.publisher != nil {
		s.publisher.Publish(userID, hub.CollectionTransactions)
	}
}
