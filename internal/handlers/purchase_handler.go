package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nsine/wisepay-backend/internal/helpers"
	"github.com/nsine/wisepay-backend/internal/middleware"
	"github.com/nsine/wisepay-backend/internal/models"
)

type PurchaseForMe struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	CreatedAt   time.Time       `json:"created_at"`
	CreatorName string          `json:"creator_name"`
	Amount      decimal.Decimal `json:"amount"`
	IsPayedOff  bool            `json:"is_payed_off"`
}

type UserPurchaseInfo struct {
	UserID     uint            `json:"user_id"`
	Username   string          `json:"username"`
	Amount     decimal.Decimal `json:"amount"`
	IsPayedOff bool            `json:"is_payed_off"`
}

type PurchaseDetail struct {
	ID           uint                `json:"id"`
	Name         string              `json:"name"`
	Type         models.PurchaseType `json:"type"`
	CreatorID    uint                `json:"creator_id"`
	TotalSum     decimal.NullDecimal `json:"total_sum"`
	IsPayedOff   bool                `json:"is_payed_off"`
	CreatedAt    time.Time           `json:"created_at"`
	StoreOrder   *models.StoreOrder  `json:"store_order,omitempty"`
	Participants []UserPurchaseInfo  `json:"participants"`
}

func ListMyPurchases(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	purchaseList, err := svc.ListPurchases(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving purchases.")
		return
	}

	views := make([]PurchaseForMe, 0, len(purchaseList))
	for _, p := range purchaseList {
		view := PurchaseForMe{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
		}
		if p.Creator != nil {
			view.CreatorName = p.Creator.Username
		}
		for _, up := range p.UserPurchases {
			if up.UserID == userID {
				if up.Sum.Valid {
					view.Amount = up.Sum.Decimal
				}
				view.IsPayedOff = up.IsPayedOff
			}
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{"purchases": views})
}

func GetPurchase(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	purchaseID, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid purchase ID.")
		return
	}

	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	purchase, err := svc.GetPurchase(c.Request.Context(), purchaseID, userID)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	detail := PurchaseDetail{
		ID:         purchase.ID,
		Name:       purchase.Name,
		Type:       purchase.Type,
		CreatorID:  purchase.CreatorID,
		TotalSum:   purchase.TotalSum,
		IsPayedOff: purchase.IsPayedOff,
		CreatedAt:  purchase.CreatedAt,
		StoreOrder: purchase.StoreOrder,
	}
	for _, up := range purchase.UserPurchases {
		info := UserPurchaseInfo{
			UserID:     up.UserID,
			IsPayedOff: up.IsPayedOff,
		}
		if up.User != nil {
			info.Username = up.User.Username
		}
		if up.Sum.Valid {
			info.Amount = up.Sum.Decimal
		}
		detail.Participants = append(detail.Participants, info)
	}

	c.JSON(http.StatusOK, detail)
}

func PayOffPurchase(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	purchaseID, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid purchase ID.")
		return
	}

	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	if err := svc.PayOff(c.Request.Context(), purchaseID, userID); err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purchase payed off."})
}
