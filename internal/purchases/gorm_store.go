package purchases

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nsine/wisepay-backend/internal/models"
)

var _ Store = (*GormStore)(nil)

// GormStore implements Store on a gorm-managed postgres database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreatePurchase(ctx context.Context, purchase *models.Purchase) error {
	return s.db.WithContext(ctx).Create(purchase).Error
}

func (s *GormStore) AddParticipants(ctx context.Context, ups []models.UserPurchase) error {
	return s.db.WithContext(ctx).Create(&ups).Error
}

func (s *GormStore) GetPurchase(ctx context.Context, id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := s.db.WithContext(ctx).
		Preload("StoreOrder").
		Preload("UserPurchases.User").
		Preload("UserPurchases.Items").
		First(&purchase, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (s *GormStore) ListPurchasesForUser(ctx context.Context, userID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("StoreOrder").
		Preload("UserPurchases.User").
		Preload("UserPurchases.Items").
		Where("id IN (?)", s.db.Model(&models.UserPurchase{}).Select("purchase_id").Where("user_id = ?", userID)).
		Order("created_at DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}
	return purchases, nil
}

func (s *GormStore) ReplaceItems(ctx context.Context, params ReplaceItemsParams) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The purchase row lock serializes every edit and submit against the
		// same purchase; all checks below read post-lock state.
		var purchase models.Purchase
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&purchase, params.PurchaseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		if err != nil {
			return err
		}

		var order models.StoreOrder
		if err := tx.Where("purchase_id = ?", params.PurchaseID).First(&order).Error; err != nil {
			return err
		}
		if order.IsSubmitted {
			return ErrPurchaseClosed
		}

		var prev models.UserPurchase
		if err := tx.First(&prev, params.UserPurchaseID).Error; err != nil {
			return err
		}

		if err := tx.Where("user_purchase_id = ?", params.UserPurchaseID).
			Delete(&models.UserPurchaseItem{}).Error; err != nil {
			return err
		}
		if len(params.Items) > 0 {
			if err := tx.Create(&params.Items).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.UserPurchase{}).Where("id = ?", params.UserPurchaseID).
			Update("sum", decimal.NewNullDecimal(params.NewSum)).Error; err != nil {
			return err
		}

		if params.AdjustTotal {
			total := decimal.Zero
			if purchase.TotalSum.Valid {
				total = purchase.TotalSum.Decimal
			}
			prevSum := decimal.Zero
			if prev.Sum.Valid {
				prevSum = prev.Sum.Decimal
			}
			newTotal := total.Sub(prevSum).Add(params.NewSum)
			if err := tx.Model(&models.Purchase{}).Where("id = ?", params.PurchaseID).
				Update("total_sum", decimal.NewNullDecimal(newTotal)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) FinalizeOrder(ctx context.Context, purchaseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&purchase, purchaseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		if err != nil {
			return err
		}

		var order models.StoreOrder
		if err := tx.Where("purchase_id = ?", purchaseID).First(&order).Error; err != nil {
			return err
		}
		if order.IsSubmitted {
			return ErrAlreadySubmitted
		}

		// The prune set is decided here, under the lock, not from the
		// engine's earlier read: an edit that committed in between must
		// survive, and a list cleared in between must be pruned.
		var ups []models.UserPurchase
		if err := tx.Preload("Items").Where("purchase_id = ?", purchaseID).Find(&ups).Error; err != nil {
			return err
		}
		var emptyIDs []uint
		for _, up := range ups {
			if len(up.Items) == 0 {
				emptyIDs = append(emptyIDs, up.ID)
			}
		}
		if len(emptyIDs) == len(ups) {
			return ErrEmptyOrder
		}

		if len(emptyIDs) > 0 {
			if err := tx.Where("id IN ?", emptyIDs).
				Delete(&models.UserPurchase{}).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.StoreOrder{}).Where("purchase_id = ?", purchaseID).
			Update("is_submitted", true).Error
	})
}

func (s *GormStore) SetPayedOff(ctx context.Context, purchaseID, userPurchaseID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var purchase models.Purchase
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&purchase, purchaseID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPurchaseNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Model(&models.UserPurchase{}).Where("id = ?", userPurchaseID).
			Update("is_payed_off", true).Error; err != nil {
			return err
		}

		// Settlement is decided from post-update state under the lock, so
		// two participants paying off back to back cannot both miss it.
		var unpaid int64
		err = tx.Model(&models.UserPurchase{}).
			Where("purchase_id = ? AND user_id <> ? AND is_payed_off = ?", purchaseID, purchase.CreatorID, false).
			Count(&unpaid).Error
		if err != nil {
			return err
		}
		if unpaid == 0 {
			return tx.Model(&models.Purchase{}).Where("id = ?", purchaseID).
				Update("is_payed_off", true).Error
		}
		return nil
	})
}
