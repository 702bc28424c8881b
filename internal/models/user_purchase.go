package models

import (
	"github.com/shopspring/decimal"
)

type PurchaseStatus string

const (
	PurchaseStatusNew PurchaseStatus = "new"
)

type UserPurchase struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	PurchaseID uint  `gorm:"not null;index;uniqueIndex:idx_purchase_user" json:"purchase_id"`
	UserID     uint  `gorm:"not null;uniqueIndex:idx_purchase_user" json:"user_id"`
	User       *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Sum is null until the participant submits their first item list.
	Sum        decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"sum"`
	Status     PurchaseStatus      `gorm:"not null" json:"status"`
	IsPayedOff bool                `gorm:"not null;default:false" json:"is_payed_off"`

	Items []UserPurchaseItem `gorm:"foreignKey:UserPurchaseID;constraint:OnDelete:CASCADE" json:"items"`
}

// UserPurchaseItem rows have no lifecycle of their own: an edit replaces the
// participant's whole list, it never patches single rows.
type UserPurchaseItem struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	UserPurchaseID uint   `gorm:"not null;index" json:"user_purchase_id"`
	ItemID         string `gorm:"not null" json:"item_id"`
	Number         int    `gorm:"not null" json:"number"`

	// Price is the line total for the whole row, not the unit price.
	// Number is carried for display only.
	Price decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
}
