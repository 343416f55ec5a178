package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReturnStatus string

const (
	ReturnStatusRequested ReturnStatus = "requested"
	ReturnStatusApproved  ReturnStatus = "approved"
	ReturnStatusRejected  ReturnStatus = "rejected"
	ReturnStatusReceived  ReturnStatus = "received"
	ReturnStatusCompleted ReturnStatus = "completed"
)

// Return and Quota are part of the backend schema but carry no application
// logic yet; the workflow around them lives in the head-office back office.
type Return struct {
	ID           string           `gorm:"type:uuid;primaryKey" json:"id"`
	ReturnNumber string           `gorm:"uniqueIndex;not null" json:"return_number"`
	OrderID      string           `gorm:"type:uuid;index;not null" json:"order_id"`
	OrderItemID  *string          `gorm:"type:uuid" json:"order_item_id,omitempty"`
	UserID       string           `gorm:"index;not null" json:"user_id"`
	IsFullKit    bool             `json:"is_full_kit"`
	Reason       string           `json:"reason,omitempty"`
	RefundAmount *decimal.Decimal `gorm:"type:numeric(10,2)" json:"refund_amount,omitempty"`
	ReturnStatus ReturnStatus     `gorm:"type:VARCHAR(20);default:'requested'" json:"return_status"`
	ReceivedAt   *time.Time       `json:"received_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type Quota struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *string    `gorm:"index" json:"user_id,omitempty"`
	StoreID    *string    `gorm:"type:uuid;index" json:"store_id,omitempty"`
	ProductID  *string    `gorm:"type:uuid" json:"product_id,omitempty"`
	KitID      *string    `gorm:"type:uuid" json:"kit_id,omitempty"`
	QuotaLimit int        `gorm:"not null" json:"quota_limit"`
	QuotaUsed  int        `gorm:"default:0" json:"quota_used"`
	ResetDate  *time.Time `json:"reset_date,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (r *Return) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (q *Quota) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
