package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/types"
)

// Order is the persisted form of an order draft and everything after it.
// While Status is draft the row is just a server-side save of the client's
// in-progress composition; the Breakdown snapshot is only written at submit
// and never recomputed afterwards.
type Order struct {
	ID                uuid.UUID               `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID               `gorm:"column:user_id;type:uuid;not null;index"`
	Status            enums.OrderStatus       `gorm:"column:status;not null;default:'draft'"`
	ProductionStatus  *enums.ProductionStatus `gorm:"column:production_status"`
	FulfillmentMethod string                  `gorm:"column:fulfillment_method"`
	FulfillmentSpeed  string                  `gorm:"column:fulfillment_speed"`
	ShippingAddress   *types.Address          `gorm:"column:shipping_address;type:jsonb"`
	OrderNotes        *string                 `gorm:"column:order_notes"`
	PromoCode         *string                 `gorm:"column:promo_code"`
	Breakdown         *types.PriceBreakdown   `gorm:"column:breakdown;type:jsonb"`
	Revision          int                     `gorm:"column:revision;not null;default:0"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;not null;default:'unpaid'"`
	PaymentIntentID   *string                 `gorm:"column:payment_intent_id;index"`
	TargetWeekStart   *time.Time              `gorm:"column:target_week_start"`
	NailSets          []NailSet               `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	SubmittedAt       *time.Time              `gorm:"column:submitted_at"`
	CompletedAt       *time.Time              `gorm:"column:completed_at"`
	CancelledAt       *time.Time              `gorm:"column:cancelled_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
