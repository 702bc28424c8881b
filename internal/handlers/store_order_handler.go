package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nsine/wisepay-backend/internal/helpers"
	"github.com/nsine/wisepay-backend/internal/middleware"
	"github.com/nsine/wisepay-backend/internal/purchases"
)

type CreateStoreOrderRequest struct {
	Name    string `json:"name" binding:"required"`
	StoreID string `json:"store_id" binding:"required"`
	Users   []uint `json:"users" binding:"required"`
}

// Items carries no required binding: an empty list is a legitimate request
// that clears the participant's selection.
type UpdateOrderItemsRequest struct {
	Items []purchases.ItemSelection `json:"items"`
}

func respondPurchaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, purchases.ErrPurchaseNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Purchase not found.")
	case errors.Is(err, purchases.ErrPurchaseClosed):
		helpers.RespondWithError(c, http.StatusUnauthorized, "Purchase closed for change by creator.")
	case errors.Is(err, purchases.ErrAccessDenied):
		helpers.RespondWithError(c, http.StatusUnauthorized, "Access denied.")
	case errors.Is(err, purchases.ErrAlreadySubmitted):
		helpers.RespondWithError(c, http.StatusBadRequest, "Order is already submitted.")
	case errors.Is(err, purchases.ErrEmptyOrder):
		helpers.RespondWithError(c, http.StatusBadRequest, "Order is empty.")
	case errors.Is(err, purchases.ErrNegativePrice):
		helpers.RespondWithError(c, http.StatusBadRequest, "Item price must not be negative.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Operation failed.")
	}
}

func CreateStoreOrder(c *gin.Context) {
	userID, ok := helpers.CurrentUserID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	var req CreateStoreOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	purchase, err := svc.CreatePurchase(c.Request.Context(), req.Name, req.StoreID, req.Users, userID)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

func UpdateOrderItems(c *gin.Context) {
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

	var req UpdateOrderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	userPurchase, err := svc.UpdateParticipantItems(c.Request.Context(), purchaseID, req.Items, userID)
	if err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, userPurchase)
}

func SubmitOrder(c *gin.Context) {
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

	if err := svc.SubmitOrder(c.Request.Context(), purchaseID, userID); err != nil {
		respondPurchaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order submitted successfully."})
}

func ListStores(c *gin.Context) {
	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	stores, err := svc.ListStores(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Store catalog is unavailable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func GetStoreContent(c *gin.Context) {
	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	content, err := svc.GetStoreContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Store catalog is unavailable.")
		return
	}

	c.JSON(http.StatusOK, content)
}

func GetItems(c *gin.Context) {
	svc := middleware.GetPurchaseService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Purchase service not found.")
		return
	}

	categoryID := c.Query("category_id")
	if categoryID == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "category_id is required.")
		return
	}

	var itemIDs []string
	if raw := c.Query("item_ids"); raw != "" {
		itemIDs = strings.Split(raw, ",")
	}

	items, err := svc.GetItems(c.Request.Context(), categoryID, itemIDs)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadGateway, "Store catalog is unavailable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
