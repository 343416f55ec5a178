package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string
type PaymentStatus string
type KitUpgradeStatus string

const (
	// Order statuses (franchise ordering flow)
	OrderStatusDraft      OrderStatus = "draft"      // Saved but not yet submitted
	OrderStatusPending    OrderStatus = "pending"    // Submitted, awaiting head-office approval
	OrderStatusApproved   OrderStatus = "approved"   // Approved by head office
	OrderStatusProcessing OrderStatus = "processing" // Being picked and packed
	OrderStatusShipped    OrderStatus = "shipped"    // Out for delivery
	OrderStatusDelivered  OrderStatus = "delivered"  // Store received the shipment
	OrderStatusCancelled  OrderStatus = "cancelled"  // Cancelled before shipping

	// Payment statuses (credit-card portion only; kits are billed to head office)
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	// Kit upgrade request statuses
	KitUpgradePendingApproval KitUpgradeStatus = "pending_approval"
	KitUpgradeApproved        KitUpgradeStatus = "approved"
	KitUpgradeRejected        KitUpgradeStatus = "rejected"
)

type Order struct {
	ID                 string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber        string          `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID             string          `gorm:"index;not null" json:"user_id"`
	StoreID            string          `gorm:"type:uuid;index;not null" json:"store_id"`
	Store              Store           `gorm:"foreignKey:StoreID" json:"store"`
	Items              []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	KitSubtotal        decimal.Decimal `gorm:"type:numeric(10,2)" json:"kit_subtotal"`
	IndividualSubtotal decimal.Decimal `gorm:"type:numeric(10,2)" json:"individual_subtotal"`
	ShippingAmount     decimal.Decimal `gorm:"type:numeric(10,2)" json:"shipping_amount"`
	TaxAmount          decimal.Decimal `gorm:"type:numeric(10,2)" json:"tax_amount"`
	Total              decimal.Decimal `gorm:"type:numeric(10,2)" json:"total"` // credit-card charge, kit portion excluded
	OrderStatus        OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"order_status"`
	PaymentStatus      PaymentStatus   `gorm:"type:VARCHAR(20);default:'pending'" json:"payment_status"`
	PaymentReference   string          `json:"payment_reference,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// OrderItem snapshots the catalog item at order time so later price or name
// changes never alter historical orders.
type OrderItem struct {
	ID               string            `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID          string            `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID        *string           `gorm:"type:uuid" json:"product_id,omitempty"`
	KitID            *string           `gorm:"type:uuid" json:"kit_id,omitempty"`
	NameEN           string            `json:"name_en"`
	NameFR           string            `json:"name_fr"`
	Quantity         int               `gorm:"not null" json:"quantity"`
	UnitPrice        decimal.Decimal   `gorm:"type:numeric(10,2)" json:"unit_price"`
	ExtendedPrice    decimal.Decimal   `gorm:"type:numeric(10,2)" json:"extended_price"`
	Size             string            `json:"size,omitempty"`
	IsKit            bool              `json:"is_kit"`
	KitUpgradeStatus *KitUpgradeStatus `gorm:"type:VARCHAR(20)" json:"kit_upgrade_status,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
