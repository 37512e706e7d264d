package domain

import (
	"time"

	"github.com/google/uuid"
)

// Transfer is one immutable ledger row per transfer attempt. Rows are only
// ever inserted; the sequence ID doubles as the insertion-order tiebreak when
// histories are sorted by time.
type Transfer struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID     uuid.UUID `gorm:"type:uuid;not null;index;column:sender_id" json:"-"`
	ReceiverID   uuid.UUID `gorm:"type:uuid;not null;index;column:receiver_id" json:"-"`
	Sender       *Account  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver     *Account  `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
	TransferTime time.Time `gorm:"not null;index;column:transfer_time" json:"transferTime"`
	Status       string    `gorm:"not null;column:status" json:"status"`
}

func (Transfer) TableName() string {
	return "transfers"
}
