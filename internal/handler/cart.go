package handler

import (
	"net/http"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/pricing"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartHandler struct{}

func cartSlabPolicy() pricing.FallbackPolicy {
	if config.AppConfig.Pricing.StrictSlabs {
		return pricing.FallbackError
	}
	return pricing.FallbackFirst
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetUint("userID")

	var items []models.CartItem
	if err := database.DB.Preload("Product").Preload("Product.Slabs", slabOrder).
		Where("user_id = ?", userID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "subtotal": subtotal})
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,gt=0"`
}

// upsertCartItem re-resolves the slab for the requested quantity and
// stores a denormalized copy of the price; checkout resolves again
// against the live catalog.
func upsertCartItem(userID uint, req AddCartItemRequest) (*models.CartItem, int, string) {
	var product models.Product
	if err := database.DB.Preload("Slabs", slabOrder).
		Where("is_active = ?", true).First(&product, req.ProductID).Error; err != nil {
		return nil, http.StatusNotFound, "Product not found"
	}

	if req.Quantity > product.AvailableQty {
		return nil, http.StatusBadRequest, "Requested quantity exceeds available stock"
	}

	slab, err := pricing.ResolveSlab(product.Slabs, req.Quantity, cartSlabPolicy())
	if err != nil {
		return nil, http.StatusBadRequest, "No pricing defined for this quantity"
	}

	var item models.CartItem
	err = database.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		item = models.CartItem{
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: slab.PerUnit,
			SlabLabel: slab.Label,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return nil, http.StatusInternalServerError, "Failed to add item to cart"
		}
		return &item, http.StatusCreated, ""
	} else if err != nil {
		return nil, http.StatusInternalServerError, "Failed to read cart"
	}

	item.Quantity = req.Quantity
	item.UnitPrice = slab.PerUnit
	item.SlabLabel = slab.Label
	if err := database.DB.Save(&item).Error; err != nil {
		return nil, http.StatusInternalServerError, "Failed to update cart"
	}
	return &item, http.StatusOK, ""
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.GetUint("userID")

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, status, errMsg := upsertCartItem(userID, req)
	if errMsg != "" {
		c.JSON(status, gin.H{"error": errMsg})
		return
	}
	c.JSON(status, item)
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := c.GetUint("userID")

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.CartItem
	if err := database.DB.Where("user_id = ?", userID).First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	// Quantity dropping to zero or below removes the line.
	if req.Quantity <= 0 {
		if err := database.DB.Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
		return
	}

	updated, status, errMsg := upsertCartItem(userID, AddCartItemRequest{
		ProductID: item.ProductID,
		Quantity:  req.Quantity,
	})
	if errMsg != "" {
		c.JSON(status, gin.H{"error": errMsg})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := c.GetUint("userID")

	res := database.DB.Where("user_id = ? AND id = ?", userID, c.Param("id")).Delete(&models.CartItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}

type MergeCartRequest struct {
	Items []AddCartItemRequest `json:"items" binding:"required"`
}

// MergeCart folds a guest's client-local cart into the server cart
// after login. Quantities for products already in the server cart are
// summed, then re-priced against the current slab table.
func (h *CartHandler) MergeCart(c *gin.Context) {
	userID := c.GetUint("userID")

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, incoming := range req.Items {
		if incoming.Quantity <= 0 {
			continue
		}

		qty := incoming.Quantity
		var existing models.CartItem
		if err := database.DB.Where("user_id = ? AND product_id = ?", userID, incoming.ProductID).
			First(&existing).Error; err == nil {
			qty += existing.Quantity
		}

		if _, _, errMsg := upsertCartItem(userID, AddCartItemRequest{
			ProductID: incoming.ProductID,
			Quantity:  qty,
		}); errMsg != "" {
			// Skip unmergeable lines (inactive product, over stock)
			// rather than failing the whole merge.
			continue
		}
	}

	var items []models.CartItem
	if err := database.DB.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
