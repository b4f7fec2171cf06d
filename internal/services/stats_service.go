package services

import (
	"gorm.io/gorm"

	apperrors "divitrack/internal/errors"
	"divitrack/internal/hub"
	"divitrack/internal/models"
	"divitrack/internal/portfolio"
)

// statsService bridges the document store and the aggregation engine. On
// every call it loads complete snapshots of the user's four collections
// (in-memory mirrors, fully replaced rather than patched) and recomputes
// statistics from scratch. Household data volumes make this cheap; there
// is deliberately no incremental maintenance.
type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB) StatsServicer {
	return &statsService{db: db}
}

// GetStats runs the aggregation engine over the user's collections.
func (s *statsService) GetStats(userID, filterMember string) (*portfolio.Stats, error) {
	if filterMember == "" {
		filterMember = portfolio.FilterAll
	}

	input, err := s.loadInput(userID)
	if err != nil {
		return nil, err
	}
	input.FilterMember = filterMember

	stats := portfolio.Compute(*input)
	return &stats, nil
}

// CollectionSnapshot loads one full collection for the hub to broadcast.
func (s *statsService) CollectionSnapshot(userID, collection string) (interface{}, error) {
	switch collection {
	case hub.CollectionMembers:
		var members []models.Member
		if err := s.find(userID, &members); err != nil {
			return nil, err
		}
		return members, nil
	case hub.CollectionSymbols:
		var symbols []models.Symbol
		if err := s.find(userID, &symbols); err != nil {
			return nil, err
		}
		return symbols, nil
	case hub.CollectionTransactions:
		var transactions []models.Transaction
		if err := s.find(userID, &transactions); err != nil {
			return nil, err
		}
		return transactions, nil
	case hub.CollectionDividends:
		var dividends []models.Dividend
		if err := s.find(userID, &dividends); err != nil {
			return nil, err
		}
		return dividends, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unknown collection: "+collection)
}

// loadInput mirrors the four collections into engine input. Creation
// order keeps the engine's tie-breaking stable across recomputations.
func (s *statsService) loadInput(userID string) (*portfolio.Input, error) {
	var members []models.Member
	if err := s.find(userID, &members); err != nil {
		return nil, err
	}
	var symbols []models.Symbol
	if err := s.find(userID, &symbols); err != nil {
		return nil, err
	}
	var transactions []models.Transaction
	if err := s.find(userID, &transactions); err != nil {
		return nil, err
	}
	var dividends []models.Dividend
	if err := s.find(userID, &dividends); err != nil {
		return nil, err
	}

	input := &portfolio.Input{
		Members:      make([]portfolio.Member, 0, len(members)),
		Symbols:      make([]portfolio.Symbol, 0, len(symbols)),
		Transactions: make([]portfolio.Transaction, 0, len(transactions)),
		Dividends:    make([]portfolio.Dividend, 0, len(dividends)),
	}
	for _, m := range members {
		input.Members = append(input.Members, portfolio.Member{ID: m.ID, Name: m.Name})
	}
	for _, sym := range symbols {
		input.Symbols = append(input.Symbols, portfolio.Symbol{
			ID: sym.ID, Name: sym.Name, CurrentPrice: sym.CurrentPrice,
		})
	}
	for _, tx := range transactions {
		input.Transactions = append(input.Transactions, portfolio.Transaction{
			ID: tx.ID, Member: tx.Member, Symbol: tx.SymbolName,
			Cost: tx.Cost, Shares: tx.Shares, Date: tx.Date,
		})
	}
	for _, d := range dividends {
		input.Dividends = append(input.Dividends, portfolio.Dividend{
			ID: d.ID, Member: d.Member, Symbol: d.SymbolName,
			Amount: d.Amount, Date: d.Date,
		})
	}
	return input, nil
}

func (s *statsService) find(userID string, dest interface{}) error {
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(dest).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
