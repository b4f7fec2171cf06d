package models

// Dividend represents one dividend receipt event. Same denormalized
// member/symbol name references as Transaction.
type Dividend struct {
	Base
	UserID     string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Member     string  `gorm:"not null" json:"member"`
	SymbolName string  `gorm:"column:symbol;not null;index" json:"symbol"`
	Amount     float64 `gorm:"not null" json:"amount"`
	Date       string  `gorm:"not null" json:"date"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
