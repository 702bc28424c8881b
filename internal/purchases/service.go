package purchases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nsine/wisepay-backend/internal/crawler"
	"github.com/nsine/wisepay-backend/internal/models"
)

// ItemSelection is one line of a participant's submitted item list. Price is
// the line total; the engine takes it verbatim and never re-prices against
// the catalog.
type ItemSelection struct {
	ItemID string          `json:"item_id" binding:"required"`
	Number int             `json:"number" binding:"required,min=1"`
	Price  decimal.Decimal `json:"price"`
}

// Service is the shared-purchase reconciliation engine. It keeps every
// participant's sum and the purchase total consistent under per-user edits
// and owns the open/closed state machine of a store order.
type Service struct {
	store   Store
	crawler *crawler.Client
}

func NewService(store Store, crawler *crawler.Client) *Service {
	return &Service{store: store, crawler: crawler}
}

// CreatePurchase opens a store purchase for the given participants. The
// creator is always part of the purchase, whether or not the caller listed
// them. Every participant starts with an empty item list and no sum.
func (s *Service) CreatePurchase(ctx context.Context, name, storeID string, participantIDs []uint, creatorID uint) (*models.Purchase, error) {
	purchase := &models.Purchase{
		Name:      name,
		Type:      models.PurchaseTypeStore,
		CreatorID: creatorID,
		CreatedAt: time.Now(),
		StoreOrder: &models.StoreOrder{
			StoreID: storeID,
		},
	}

	if err := s.store.CreatePurchase(ctx, purchase); err != nil {
		return nil, err
	}

	seen := map[uint]bool{creatorID: true}
	userIDs := []uint{creatorID}
	for _, id := range participantIDs {
		if !seen[id] {
			seen[id] = true
			userIDs = append(userIDs, id)
		}
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	ups := make([]models.UserPurchase, len(userIDs))
	for i, id := range userIDs {
		ups[i] = models.UserPurchase{
			PurchaseID: purchase.ID,
			UserID:     id,
			Status:     models.PurchaseStatusNew,
		}
	}
	if err := s.store.AddParticipants(ctx, ups); err != nil {
		return nil, err
	}

	return s.store.GetPurchase(ctx, purchase.ID)
}

// UpdateParticipantItems replaces the acting user's whole item list and
// recomputes their sum. For non-creator participants the purchase total is
// adjusted by the difference between the old and the new sum; the creator's
// own spend never enters the total.
func (s *Service) UpdateParticipantItems(ctx context.Context, purchaseID uint, items []ItemSelection, actingUserID uint) (*models.UserPurchase, error) {
	purchase, err := s.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if purchase.StoreOrder.IsSubmitted {
		return nil, ErrPurchaseClosed
	}

	userPurchase := findUserPurchase(purchase.UserPurchases, actingUserID)
	if userPurchase == nil {
		// Participant rows are created with the purchase, so a missing row
		// means the caller is no participant at all.
		return nil, fmt.Errorf("user %d in purchase %d: %w", actingUserID, purchaseID, ErrAccessDenied)
	}

	newSum := decimal.Zero
	rows := make([]models.UserPurchaseItem, len(items))
	for i, item := range items {
		if item.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		newSum = newSum.Add(item.Price)
		rows[i] = models.UserPurchaseItem{
			UserPurchaseID: userPurchase.ID,
			ItemID:         item.ItemID,
			Number:         item.Number,
			Price:          item.Price,
		}
	}

	err = s.store.ReplaceItems(ctx, ReplaceItemsParams{
		PurchaseID:     purchase.ID,
		UserPurchaseID: userPurchase.ID,
		Items:          rows,
		NewSum:         newSum,
		AdjustTotal:    purchase.CreatorID != actingUserID,
	})
	if err != nil {
		return nil, err
	}

	userPurchase.Sum = decimal.NewNullDecimal(newSum)
	userPurchase.Items = rows
	return userPurchase, nil
}

// SubmitOrder closes the order. Only the creator may close, only once, and
// only if at least one participant picked something. Participants who never
// picked anything are pruned from the final order.
func (s *Service) SubmitOrder(ctx context.Context, purchaseID, actingUserID uint) error {
	purchase, err := s.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}
	if purchase.CreatorID != actingUserID {
		return ErrAccessDenied
	}
	if purchase.StoreOrder.IsSubmitted {
		return ErrAlreadySubmitted
	}

	allEmpty := true
	for _, up := range purchase.UserPurchases {
		if len(up.Items) > 0 {
			allEmpty = false
			break
		}
	}
	if allEmpty {
		return ErrEmptyOrder
	}

	// The store re-reads the item lists under the purchase row lock and
	// decides the prune set there; the check above only surfaces the
	// common cases without opening a transaction.
	return s.store.FinalizeOrder(ctx, purchaseID)
}

// GetPurchase returns the full purchase for a participant.
func (s *Service) GetPurchase(ctx context.Context, purchaseID, actingUserID uint) (*models.Purchase, error) {
	purchase, err := s.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}
	if findUserPurchase(purchase.UserPurchases, actingUserID) == nil {
		return nil, ErrAccessDenied
	}
	return purchase, nil
}

// ListPurchases returns every purchase the user participates in.
func (s *Service) ListPurchases(ctx context.Context, userID uint) ([]models.Purchase, error) {
	return s.store.ListPurchasesForUser(ctx, userID)
}

// PayOff marks the acting participant's share payed off. Once every
// non-creator participant settled, the purchase itself is settled.
func (s *Service) PayOff(ctx context.Context, purchaseID, actingUserID uint) error {
	purchase, err := s.store.GetPurchase(ctx, purchaseID)
	if err != nil {
		return err
	}
	userPurchase := findUserPurchase(purchase.UserPurchases, actingUserID)
	if userPurchase == nil {
		return ErrAccessDenied
	}

	// Whether the purchase settles is decided by the store under the
	// purchase row lock; concurrent pay-offs serialize there.
	return s.store.SetPayedOff(ctx, purchaseID, userPurchase.ID)
}

// ListStores passes the external catalog's store list through unchanged.
func (s *Service) ListStores(ctx context.Context) ([]crawler.Store, error) {
	return s.crawler.ListStores(ctx)
}

// GetStoreContent passes one store's catalog through unchanged.
func (s *Service) GetStoreContent(ctx context.Context, storeID string) (*crawler.StoreContent, error) {
	return s.crawler.GetStoreContent(ctx, storeID)
}

// GetItems passes a batched item lookup through unchanged.
func (s *Service) GetItems(ctx context.Context, categoryID string, itemIDs []string) ([]crawler.Item, error) {
	return s.crawler.GetItems(ctx, categoryID, itemIDs)
}

func findUserPurchase(ups []models.UserPurchase, userID uint) *models.UserPurchase {
	for i := range ups {
		if ups[i].UserID == userID {
			return &ups[i]
		}
	}
	return nil
}
