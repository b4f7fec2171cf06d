package models

// Transaction represents one buy (positive cost/shares) or sell
// (negative cost/shares) lot.
//
// Member and SymbolName are denormalized name references, not foreign
// keys. They should match an existing Member.Name / Symbol.Name but the
// store does not enforce it; the aggregation engine silently ignores
// records whose symbol no longer exists.
//
// Date is stored as an opaque string, "YYYY-MM-DD" by convention. An
// unparseable date is tolerated everywhere downstream.
type Transaction struct {
	Base
	UserID     string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Member     string  `gorm:"not null" json:"member"`
	SymbolName string  `gorm:"column:symbol;not null;index" json:"symbol"`
	Cost       float64 `gorm:"not null" json:"cost"`
	Shares     float64 `gorm:"not null" json:"shares"`
	Date       string  `gorm:"not null" json:"date"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
