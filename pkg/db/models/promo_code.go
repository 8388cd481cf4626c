package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// PromoCode is one discount rule. Value is percent points for percentage
// codes, cents for fixed_amount and fixed_price_item, and unused otherwise.
type PromoCode struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Code          string          `gorm:"column:code;not null;uniqueIndex"`
	Type          enums.PromoType `gorm:"column:type;not null"`
	Value         int             `gorm:"column:value;not null;default:0"`
	MinOrderCents int             `gorm:"column:min_order_cents;not null;default:0"`
	Active        bool            `gorm:"column:active;not null;default:true"`
	StartsAt      *time.Time      `gorm:"column:starts_at"`
	EndsAt        *time.Time      `gorm:"column:ends_at"`
	MaxUses       *int            `gorm:"column:max_uses"`
	UsesCount     int             `gorm:"column:uses_count;not null;default:0"`
	PerUserLimit  *int            `gorm:"column:per_user_limit"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PromoRedemption records one use of a promo code by a user on an order.
// Written in the same transaction that completes the order.
type PromoRedemption struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PromoCodeID uuid.UUID `gorm:"column:promo_code_id;type:uuid;not null;index"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
