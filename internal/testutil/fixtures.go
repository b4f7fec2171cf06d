package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"divitrack/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestMember creates a household member with a unique name.
func CreateTestMember(t *testing.T, db *gorm.DB, userID string) *models.Member {
	t.Helper()
	return CreateTestMemberWithName(t, db, userID, fmt.Sprintf("Member %d", nextID()))
}

// CreateTestMemberWithName creates a household member with the given name.
func CreateTestMemberWithName(t *testing.T, db *gorm.DB, userID, name string) *models.Member {
	t.Helper()

	member := &models.Member{
		UserID: userID,
		Name:   name,
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestSymbol creates a tracked symbol with the given name and price.
func CreateTestSymbol(t *testing.T, db *gorm.DB, userID, name string, price float64) *models.Symbol {
	t.Helper()

	symbol := &models.Symbol{
		UserID:       userID,
		Name:         name,
		CurrentPrice: price,
	}
	if err := db.Create(symbol).Error; err != nil {
		t.Fatalf("failed to create test symbol: %v", err)
	}
	return symbol
}

// CreateTestTransaction creates a buy/sell lot referencing member and symbol by name.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, member, symbol string, cost, shares float64, date string) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:     userID,
		Member:     member,
		SymbolName: symbol,
		Cost:       cost,
		Shares:     shares,
		Date:       date,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestDividend creates a dividend receipt referencing member and symbol by name.
func CreateTestDividend(t *testing.T, db *gorm.DB, userID, member, symbol string, amount float64, date string) *models.Dividend {
	t.Helper()

	dividend := &models.Dividend{
		UserID:     userID,
		Member:     member,
		SymbolName: symbol,
		Amount:     amount,
		Date:       date,
	}
	if err := db.Create(dividend).Error; err != nil {
		t.Fatalf("failed to create test dividend: %v", err)
	}
	return dividend
}
