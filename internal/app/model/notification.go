package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// EmailNotification records every outbound order email so deliveries can be
// audited without digging through provider dashboards.
type EmailNotification struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	Recipients pq.StringArray `gorm:"type:text[]" json:"recipients"`
	Subject    string         `gorm:"not null" json:"subject"`
	SentAt     time.Time      `json:"sent_at"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (EmailNotification) TableName() string {
	return "email_notifications"
}
