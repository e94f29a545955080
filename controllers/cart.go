package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"go-storefront/middleware"
	"go-storefront/store"
	"go-storefront/utils"
)

// CartController handles the cart and its lockstep stock mutations. Add and
// remove adjust the user's embedded cart and the product's stock together
// inside a single store transaction, so a crash or a concurrent request can
// never leak stock between the two writes.
type CartController struct {
	Store  store.Store
	Logger *zap.Logger
}

// NewCartController creates a new CartController.
func NewCartController(st store.Store, logger *zap.Logger) *CartController {
	return &CartController{Store: st, Logger: logger}
}

type cartRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// AddToCart reserves stock for the authenticated user: decrements the
// product's quantity and increments the cart entry by the requested amount.
// Insufficient stock rejects the request with no mutation.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Access Denied", http.StatusUnauthorized)
		return
	}

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cart map[string]int
	err := cc.Store.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := cc.Store.UserByEmail(ctx, claims.Email)
		if err != nil {
			return err
		}
		product, err := cc.Store.ProductByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if product.Quantity < req.Quantity {
			return store.ErrInsufficientStock
		}
		if err := cc.Store.AdjustStock(ctx, req.ProductID, -req.Quantity); err != nil {
			return err
		}

		key := strconv.Itoa(req.ProductID)
		newQuantity := user.Cart[key] + req.Quantity
		if err := cc.Store.SetCartQuantity(ctx, claims.Email, key, newQuantity); err != nil {
			return err
		}
		user.Cart[key] = newQuantity
		cart = user.Cart
		return nil
	})
	if err != nil {
		cc.respondCartError(w, err, "Error adding to cart")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "cart": cart})
}

// RemoveFromCart releases stock back to the product. A removal that would take
// the cart entry to zero or below deletes the entry entirely; the product is
// restocked by the full requested amount either way, matching the observed
// storefront behavior even when the cart held less.
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Access Denied", http.StatusUnauthorized)
		return
	}

	var req cartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var cart map[string]int
	err := cc.Store.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := cc.Store.UserByEmail(ctx, claims.Email)
		if err != nil {
			return err
		}

		// Restock before touching the cart so a missing product aborts the
		// whole operation.
		if err := cc.Store.AdjustStock(ctx, req.ProductID, req.Quantity); err != nil {
			return err
		}

		key := strconv.Itoa(req.ProductID)
		newQuantity := user.Cart[key] - req.Quantity
		if newQuantity <= 0 {
			if err := cc.Store.RemoveCartEntry(ctx, claims.Email, key); err != nil {
				return err
			}
			delete(user.Cart, key)
		} else {
			if err := cc.Store.SetCartQuantity(ctx, claims.Email, key, newQuantity); err != nil {
				return err
			}
			user.Cart[key] = newQuantity
		}
		cart = user.Cart
		return nil
	})
	if err != nil {
		cc.respondCartError(w, err, "Error removing from cart")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "cart": cart})
}

// GetCart returns the stored cart mapping verbatim.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.UserClaims(r)
	if !ok {
		http.Error(w, "Access Denied", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := cc.Store.UserByEmail(ctx, claims.Email)
	if err != nil {
		cc.respondCartError(w, err, "Error fetching cart")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "cart": user.Cart})
}

func (cc *CartController) respondCartError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		utils.Message(w, http.StatusNotFound, "User not found")
	case errors.Is(err, store.ErrProductNotFound):
		utils.Message(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, store.ErrInsufficientStock):
		utils.Message(w, http.StatusBadRequest, "Not enough stock available")
	default:
		cc.Logger.Error("cart operation failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, fallback)
	}
}
