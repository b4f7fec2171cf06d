package models

// Member represents one household participant. Members are created and
// deleted explicitly and never mutated otherwise. Transactions and
// dividends reference members by name, not by ID.
type Member struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:uq_members_user_name" json:"user_id"`
	Name   string `gorm:"not null;uniqueIndex:uq_members_user_name" json:"name"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
