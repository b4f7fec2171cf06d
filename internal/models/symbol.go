package models

// Symbol represents a tracked security. CurrentPrice is a manually
// entered market price (there is no external feed) and defaults to 0.
type Symbol struct {
	Base
	UserID       string  `gorm:"type:uuid;not null;uniqueIndex:uq_symbols_user_name" json:"user_id"`
	Name         string  `gorm:"not null;uniqueIndex:uq_symbols_user_name" json:"name"`
	CurrentPrice float64 `gorm:"not null;default:0" json:"current_price"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
