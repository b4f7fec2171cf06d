package models

import "time"

// User represents one household login. All four record collections
// (members, symbols, transactions, dividends) are scoped to a user.
type User struct {
	Base
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	Members      []Member      `gorm:"foreignKey:UserID" json:"members,omitempty"`
	Symbols      []Symbol      `gorm:"foreignKey:UserID" json:"symbols,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Dividends    []Dividend    `gorm:"foreignKey:UserID" json:"dividends,omitempty"`
}
