package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a named balance holder. AccountNumber is the caller-assigned
// public identifier; ID is the internal row key that transfers reference.
type Account struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	Balance       float64   `gorm:"not null;column:balance" json:"balance"`
	AccountNumber int64     `gorm:"uniqueIndex;not null;column:account_number" json:"accountNumber"`
	CreatedAt     time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}
