package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is directional; there is no read/delivery state.
type Message struct {
	ID         uint   `gorm:"primaryKey"`
	PublicID   string `gorm:"type:varchar(36);uniqueIndex;not null"`
	SenderID   uint   `gorm:"index;not null"`
	ReceiverID uint   `gorm:"index;not null"`
	Content    string `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.PublicID == "" {
		m.PublicID = uuid.NewString()
	}
	return nil
}
