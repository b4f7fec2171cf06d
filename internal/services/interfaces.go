package services

import (
	"divitrack/internal/models"
	"divitrack/internal/pagination"
	"divitrack/internal/portfolio"
)

// ChangePublisher receives a signal after any committed mutation to one
// of the four record collections. The hub implements it; passing nil
// disables live updates (used in tests).
type ChangePublisher interface {
	Publish(userID, collection string)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// MemberServicer defines the contract for household member business logic.
type MemberServicer interface {
	CreateMember(userID, name string) (*models.Member, error)
	GetUserMembers(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Member], error)
	GetMemberByID(userID, memberID string) (*models.Member, error)
	DeleteMember(userID, memberID string) error
}

// SymbolServicer defines the contract for tracked symbol business logic.
type SymbolServicer interface {
	CreateSymbol(userID, name string, currentPrice float64) (*models.Symbol, error)
	GetUserSymbols(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Symbol], error)
	GetSymbolByID(userID, symbolID string) (*models.Symbol, error)
	UpdateSymbolPrice(userID, symbolID string, currentPrice float64) (*models.Symbol, error)
	DeleteSymbol(userID, symbolID string) error
}

// TransactionServicer defines the contract for buy/sell lot business logic.
type TransactionServicer interface {
	CreateTransaction(userID, member, symbol string, cost, shares float64, date string) (*models.Transaction, error)
	GetUserTransactions(userID, symbol string, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID string) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID, member, symbol string, cost, shares float64, date string) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID string) error
}

// DividendServicer defines the contract for dividend receipt business logic.
type DividendServicer interface {
	CreateDividend(userID, member, symbol string, amount float64, date string) (*models.Dividend, error)
	GetUserDividends(userID, symbol string, page pagination.PageRequest) (*pagination.PageResponse[models.Dividend], error)
	GetDividendByID(userID, dividendID string) (*models.Dividend, error)
	UpdateDividend(userID, dividendID, member, symbol string, amount float64, date string) (*models.Dividend, error)
	DeleteDividend(userID, dividendID string) error
}

// StatsServicer runs the portfolio aggregation engine over full snapshots
// of a user's four collections. It doubles as the hub's snapshot source.
type StatsServicer interface {
	GetStats(userID, filterMember string) (*portfolio.Stats, error)
	CollectionSnapshot(userID, collection string) (interface{}, error)
}
