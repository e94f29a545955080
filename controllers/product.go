package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/store"
	"go-storefront/utils"
)

// newCollectionSize is how many of the latest products /newcollections returns.
const newCollectionSize = 8

// ProductController handles catalog requests.
type ProductController struct {
	Store  store.Store
	Logger *zap.Logger
}

// NewProductController creates a new ProductController.
func NewProductController(st store.Store, logger *zap.Logger) *ProductController {
	return &ProductController{Store: st, Logger: logger}
}

// AddProduct inserts a new catalog item. Ids come from an atomic sequence
// seeded so the first product gets id 40 and each one after that max+1.
func (pc *ProductController) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		Image    string  `json:"image"`
		Category string  `json:"category"`
		NewPrice float64 `json:"new_price"`
		OldPrice float64 `json:"old_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := pc.Store.NextProductID(ctx)
	if err != nil {
		pc.Logger.Error("add product: id assignment failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	product := models.NewProduct(id, req.Name, req.Image, req.Category, req.NewPrice, req.OldPrice)
	if err := pc.Store.InsertProduct(ctx, &product); err != nil {
		pc.Logger.Error("add product: insert failed", zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "name": req.Name})
}

// RemoveProduct deletes a catalog item by id. Deleting an id that does not
// exist still reports success.
func (pc *ProductController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := pc.Store.DeleteProduct(ctx, req.ID); err != nil {
		pc.Logger.Error("remove product failed", zap.Int("id", req.ID), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "name": req.Name})
}

// AllProducts lists the whole catalog.
func (pc *ProductController) AllProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	products, err := pc.Store.AllProducts(ctx)
	if err != nil {
		pc.Logger.Error("list products failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.JSON(w, http.StatusOK, products)
}

// ProductByID fetches a single product by its numeric id.
func (pc *ProductController) ProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.ProductByID(ctx, id)
	if errors.Is(err, store.ErrProductNotFound) {
		utils.Message(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		pc.Logger.Error("fetch product failed", zap.Int("id", id), zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Failed to fetch product details")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// UpdateProduct overwrites name, prices and category of a product.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int     `json:"id"`
		Name     string  `json:"name"`
		OldPrice float64 `json:"old_price"`
		NewPrice float64 `json:"new_price"`
		Category string  `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.UpdateProduct(ctx, req.ID, store.ProductUpdate{
		Name:     req.Name,
		OldPrice: req.OldPrice,
		NewPrice: req.NewPrice,
		Category: req.Category,
	})
	if errors.Is(err, store.ErrProductNotFound) {
		utils.Message(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		pc.Logger.Error("update product failed", zap.Int("id", req.ID), zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error updating product details")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// TogglePopular sets a product's popular flag.
func (pc *ProductController) TogglePopular(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        int  `json:"id"`
		IsPopular bool `json:"isPopular"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.SetPopular(ctx, req.ID, req.IsPopular)
	if errors.Is(err, store.ErrProductNotFound) {
		utils.Message(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		pc.Logger.Error("toggle popular failed", zap.Int("id", req.ID), zap.Error(err))
		http.Error(w, "Error updating product status", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// UpdateAllPopular resets the popular flag on every product. One-off backfill
// endpoint kept for the admin panel.
func (pc *ProductController) UpdateAllPopular(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	modified, err := pc.Store.SetAllPopular(ctx, false)
	if err != nil {
		pc.Logger.Error("bulk popular update failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "Error updating products",
		})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Updated %d products", modified),
	})
}

// UpdateAllQuantity resets the stock quantity on every product to the default.
// One-off backfill endpoint kept for the admin panel.
func (pc *ProductController) UpdateAllQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	modified, err := pc.Store.SetAllQuantity(ctx, 5)
	if err != nil {
		pc.Logger.Error("bulk quantity update failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error updating products")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{
		"message":       "Quantity field added to all products successfully",
		"modifiedCount": modified,
	})
}

// PatchQuantity sets the stock quantity of one product.
func (pc *ProductController) PatchQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Message(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.SetQuantity(ctx, id, req.Quantity)
	if errors.Is(err, store.ErrProductNotFound) {
		utils.Message(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		pc.Logger.Error("patch quantity failed", zap.Int("id", id), zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Error updating product quantity")
		return
	}
	utils.JSON(w, http.StatusOK, product)
}

// NewCollections returns the 8 most recently added products, newest first.
func (pc *ProductController) NewCollections(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := pc.Store.NewestProducts(ctx, newCollectionSize)
	if err != nil {
		pc.Logger.Error("new collections failed", zap.Error(err))
		utils.Message(w, http.StatusInternalServerError, "Failed to fetch new collections")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.JSON(w, http.StatusOK, products)
}

// PopularProducts returns every product flagged popular.
func (pc *ProductController) PopularProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	products, err := pc.Store.PopularProducts(ctx)
	if err != nil {
		pc.Logger.Error("popular products failed", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false, "message": "Error fetching popular products",
		})
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.JSON(w, http.StatusOK, products)
}
