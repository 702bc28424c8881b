package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseType string

const (
	PurchaseTypeStore PurchaseType = "store"
)

type Purchase struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Type      PurchaseType `gorm:"not null" json:"type"`
	CreatorID uint         `gorm:"not null;index" json:"creator_id"`
	Creator   *User        `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`

	// TotalSum aggregates the sums of every non-creator participant.
	// It stays null until the first non-creator submits their items.
	TotalSum   decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"total_sum"`
	IsPayedOff bool                `gorm:"not null;default:false" json:"is_payed_off"`
	CreatedAt  time.Time           `json:"created_at"`

	StoreOrder    *StoreOrder    `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"store_order,omitempty"`
	UserPurchases []UserPurchase `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"user_purchases,omitempty"`
}
