// Package purchases implements shared store orders: one user opens a
// purchase for a group, every participant fills in their own item list, and
// the creator closes the order once.
package purchases

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/nsine/wisepay-backend/internal/models"
)

// ReplaceItems parameters. NewSum is the sum the acting participant's item
// list adds up to; AdjustTotal is false when the acting participant is the
// purchase creator, whose own spend never counts into the shared total.
type ReplaceItemsParams struct {
	PurchaseID     uint
	UserPurchaseID uint
	Items          []models.UserPurchaseItem
	NewSum         decimal.Decimal
	AdjustTotal    bool
}

// Store is the transactional persistence contract the reconciliation engine
// runs against. Multi-entity writes are atomic: either everything in one
// call lands or nothing does.
type Store interface {
	// CreatePurchase inserts the purchase together with its store order and
	// fills in the generated ids.
	CreatePurchase(ctx context.Context, purchase *models.Purchase) error

	// AddParticipants batch-inserts the user purchase rows of a new purchase.
	AddParticipants(ctx context.Context, ups []models.UserPurchase) error

	// GetPurchase loads a purchase with its store order and every user
	// purchase including user and items. Returns ErrPurchaseNotFound when
	// no such purchase exists.
	GetPurchase(ctx context.Context, id uint) (*models.Purchase, error)

	// ListPurchasesForUser loads every purchase the user participates in,
	// fully populated like GetPurchase.
	ListPurchasesForUser(ctx context.Context, userID uint) ([]models.Purchase, error)

	// ReplaceItems atomically swaps a participant's item list, updates their
	// sum and adjusts the purchase total. It re-checks the submitted flag
	// and re-reads the participant's previous sum under a lock on the
	// purchase row, so concurrent edits of the same purchase serialize and
	// the incremental total never works off a stale read. Returns
	// ErrPurchaseClosed when the order was submitted in the meantime.
	ReplaceItems(ctx context.Context, params ReplaceItemsParams) error

	// FinalizeOrder closes the order: it prunes every zero-item participant
	// and marks the store order submitted, atomically. The prune set is
	// computed under the purchase row lock, so an item-list edit that lands
	// after the engine's read but before the close can neither be destroyed
	// nor escape pruning. Returns ErrAlreadySubmitted when a concurrent call
	// won the race and ErrEmptyOrder when, under the lock, no participant
	// owns a single item.
	FinalizeOrder(ctx context.Context, purchaseID uint) error

	// SetPayedOff marks one participant row payed off. Whether the purchase
	// itself settles is decided under the purchase row lock, from the
	// post-update state of every non-creator row.
	SetPayedOff(ctx context.Context, purchaseID, userPurchaseID uint) error
}
