package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/events"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/pricing"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/service"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/pkg/database"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	Orders *service.OrderService
	Bus    *events.Bus
}

// --- Products ---

type SlabRequest struct {
	MinQty  int    `json:"min_qty" binding:"required,gt=0"`
	MaxQty  int    `json:"max_qty" binding:"gte=0"` // 0 = unbounded
	PerUnit int64  `json:"per_unit" binding:"required,gt=0"`
	Label   string `json:"label"`
}

type CreateProductRequest struct {
	Name         string        `json:"name" binding:"required"`
	CategoryID   *uint         `json:"category_id"`
	Description  string        `json:"description"`
	ImageURL     string        `json:"image_url"`
	BasePrice    int64         `json:"base_price" binding:"required,gt=0"`
	AvailableQty int           `json:"available_qty" binding:"gte=0"`
	WeightLabel  string        `json:"weight_label"`
	Slabs        []SlabRequest `json:"slabs" binding:"required,min=1,dive"`
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx := database.DB.Begin()

	product := models.Product{
		Name:         req.Name,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		ImageURL:     req.ImageURL,
		BasePrice:    req.BasePrice,
		AvailableQty: req.AvailableQty,
		WeightLabel:  req.WeightLabel,
		IsActive:     true,
	}
	if err := tx.Create(&product).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	for i, s := range req.Slabs {
		slab := models.PriceSlab{
			ProductID: product.ID,
			MinQty:    s.MinQty,
			MaxQty:    s.MaxQty,
			PerUnit:   s.PerUnit,
			Label:     s.Label,
			Position:  i,
		}
		if err := tx.Create(&slab).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create price slab"})
			return
		}
		product.Slabs = append(product.Slabs, slab)
	}

	tx.Commit()
	c.JSON(http.StatusCreated, product)
}

type UpdateProductRequest struct {
	Name         string `json:"name" binding:"required"`
	CategoryID   *uint  `json:"category_id"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	BasePrice    int64  `json:"base_price" binding:"required,gt=0"`
	AvailableQty int    `json:"available_qty" binding:"gte=0"`
	WeightLabel  string `json:"weight_label"`
	IsActive     *bool  `json:"is_active"`
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"category_id":   req.CategoryID,
		"description":   req.Description,
		"image_url":     req.ImageURL,
		"base_price":    req.BasePrice,
		"available_qty": req.AvailableQty,
		"weight_label":  req.WeightLabel,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	res := database.DB.Model(&models.Product{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

// ReplaceSlabs swaps a product's whole price table in one transaction;
// existing orders keep their frozen prices.
func (h *AdminHandler) ReplaceSlabs(c *gin.Context) {
	var req struct {
		Slabs []SlabRequest `json:"slabs" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	tx := database.DB.Begin()

	if err := tx.Where("product_id = ?", product.ID).Delete(&models.PriceSlab{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace slabs"})
		return
	}

	for i, s := range req.Slabs {
		if err := tx.Create(&models.PriceSlab{
			ProductID: product.ID,
			MinQty:    s.MinQty,
			MaxQty:    s.MaxQty,
			PerUnit:   s.PerUnit,
			Label:     s.Label,
			Position:  i,
		}).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace slabs"})
			return
		}
	}

	tx.Commit()
	c.JSON(http.StatusOK, gin.H{"message": "Price slabs updated"})
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	res := database.DB.Delete(&models.Product{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *AdminHandler) ListAllProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Preload("Category").Preload("Slabs", slabOrder).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- Categories ---

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := database.DB.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	res := database.DB.Delete(&models.Category{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// --- Banners ---

type BannerRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url" binding:"required"`
	LinkURL  string `json:"link_url"`
	Position int    `json:"position"`
	IsActive *bool  `json:"is_active"`
}

func (h *AdminHandler) CreateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner := models.Banner{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		Position: req.Position,
		IsActive: true,
	}
	if req.IsActive != nil {
		banner.IsActive = *req.IsActive
	}
	if err := database.DB.Create(&banner).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create banner"})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *AdminHandler) UpdateBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"title":     req.Title,
		"image_url": req.ImageURL,
		"link_url":  req.LinkURL,
		"position":  req.Position,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := database.DB.Model(&models.Banner{}).Where("id = ?", c.Param("id")).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update banner"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Banner updated"})
}

func (h *AdminHandler) DeleteBanner(c *gin.Context) {
	if err := database.DB.Delete(&models.Banner{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete banner"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
}

// --- Announcements ---

type AnnouncementRequest struct {
	Message  string `json:"message" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

func (h *AdminHandler) CreateAnnouncement(c *gin.Context) {
	var req AnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a := models.Announcement{Message: req.Message, IsActive: true}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := database.DB.Create(&a).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AdminHandler) DeleteAnnouncement(c *gin.Context) {
	if err := database.DB.Delete(&models.Announcement{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
}

// --- Coupons ---

type CouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	DiscountType   string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  int64     `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount int64     `json:"min_order_amount" binding:"gte=0"`
	MaxDiscount    int64     `json:"max_discount" binding:"gte=0"`
	ExpiresAt      time.Time `json:"expires_at" binding:"required"`
	IsActive       *bool     `json:"is_active"`
}

func (h *AdminHandler) CreateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	coupon := models.Coupon{
		Code:           pricing.NormalizeCode(req.Code),
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       true,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&coupon).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *AdminHandler) ListCoupons(c *gin.Context) {
	var coupons []models.Coupon
	if err := database.DB.Order("created_at desc").Find(&coupons).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *AdminHandler) UpdateCoupon(c *gin.Context) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"code":             pricing.NormalizeCode(req.Code),
		"discount_type":    req.DiscountType,
		"discount_value":   req.DiscountValue,
		"min_order_amount": req.MinOrderAmount,
		"max_discount":     req.MaxDiscount,
		"expires_at":       req.ExpiresAt,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := database.DB.Model(&models.Coupon{}).Where("id = ?", c.Param("id")).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update coupon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon updated"})
}

func (h *AdminHandler) DeleteCoupon(c *gin.Context) {
	if err := database.DB.Delete(&models.Coupon{}, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete coupon"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Coupon deleted"})
}

// --- Orders ---

func (h *AdminHandler) ListOrders(c *gin.Context) {
	var orders []models.Order
	query := database.DB.Preload("User").Preload("Items").Preload("Items.Product").
		Order("created_at desc")

	if status := c.Query("status"); status != "" {
		query = query.Where("order_status = ?", status)
	}
	if orderType := c.Query("type"); orderType != "" {
		query = query.Where("order_type = ?", orderType)
	}

	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	// Back-office views show totals with the transportation amount on top.
	type orderWithDisplay struct {
		models.Order
		DisplayTotal int64 `json:"display_total"`
	}
	out := make([]orderWithDisplay, 0, len(orders))
	for _, o := range orders {
		display := o.TotalAmount
		if o.Transportation {
			display += o.TransportAmount
		}
		out = append(out, orderWithDisplay{Order: o, DisplayTotal: display})
	}

	c.JSON(http.StatusOK, out)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending prepaid fully_paid dispatched delivered cancelled"`
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var orderID uint
	if err := bindID(c.Param("id"), &orderID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.UpdateStatus(orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrBadTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order_status": order.OrderStatus})
}

// --- Dashboard ---

func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	var todayRevenue int64
	var totalOrders int64
	var pendingOrders int64
	var lowStockCount int64
	var newCustomers int64

	today := time.Now().Format("2006-01-02")
	database.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ? AND order_status <> ?", today, models.StatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)

	database.DB.Model(&models.Order{}).Count(&totalOrders)
	database.DB.Model(&models.Order{}).Where("order_status = ?", models.StatusPending).Count(&pendingOrders)
	database.DB.Model(&models.Product{}).Where("available_qty < 20 AND is_active = ?", true).Count(&lowStockCount)
	database.DB.Model(&models.User{}).Where("DATE(created_at) = ? AND role = ?", today, models.RoleCustomer).Count(&newCustomers)

	// Last 7 days revenue chart
	type ChartData struct {
		Labels []string `json:"labels"`
		Data   []int64  `json:"data"`
	}
	weekChart := ChartData{Labels: []string{}, Data: []int64{}}
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		var dailySum int64
		database.DB.Model(&models.Order{}).
			Where("DATE(created_at) = ? AND order_status <> ?", date.Format("2006-01-02"), models.StatusCancelled).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&dailySum)
		weekChart.Labels = append(weekChart.Labels, date.Format("Jan 02"))
		weekChart.Data = append(weekChart.Data, dailySum)
	}

	// Status distribution
	type StatusCount struct {
		OrderStatus string `json:"order_status"`
		Count       int64  `json:"count"`
	}
	var statusCounts []StatusCount
	database.DB.Model(&models.Order{}).
		Select("order_status, count(id) as count").
		Group("order_status").Scan(&statusCounts)

	c.JSON(http.StatusOK, gin.H{
		"metrics": gin.H{
			"todayRevenue":  todayRevenue,
			"totalOrders":   totalOrders,
			"pendingOrders": pendingOrders,
			"lowStock":      lowStockCount,
			"newCustomers":  newCustomers,
		},
		"charts": gin.H{
			"weekly": weekChart,
			"status": statusCounts,
		},
	})
}

// StreamOrders pushes order events to the admin dashboard over SSE so
// the order list refreshes without polling.
func (h *AdminHandler) StreamOrders(c *gin.Context) {
	msgs, err := h.Bus.SubscribeOrders(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe to order events"})
		return
	}

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			c.SSEvent("order", string(msg.Payload))
			msg.Ack()
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
