package models

type StoreOrder struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PurchaseID uint   `gorm:"not null;uniqueIndex" json:"purchase_id"`
	StoreID    string `gorm:"not null" json:"store_id"`

	// IsSubmitted is terminal: once the creator closes the order it never
	// goes back to false and no item list may change again.
	IsSubmitted bool `gorm:"not null;default:false" json:"is_submitted"`
}
