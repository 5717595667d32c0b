package handler

import (
	"fmt"
	"net/http"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/payment"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PublicHandler struct{}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, config.AppConfig.Site)
}

func (h *PublicHandler) GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"company_name":    config.AppConfig.Defaults.CompanyName,
		"company_address": config.AppConfig.Defaults.CompanyAddress,
		"company_phone":   config.AppConfig.Defaults.CompanyPhone,
		"whatsapp_number": config.AppConfig.Defaults.WhatsappNumber,
	})
}

func slabOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position asc, id asc")
}

func (h *PublicHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	query := database.DB.Preload("Category").Preload("Slabs", slabOrder).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.name = ?", category)
	}

	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *PublicHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.Preload("Category").Preload("Slabs", slabOrder).
		Where("is_active = ?", true).First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *PublicHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := database.DB.Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *PublicHandler) ListBanners(c *gin.Context) {
	var banners []models.Banner
	if err := database.DB.Where("is_active = ?", true).Order("position asc").Find(&banners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch banners"})
		return
	}
	c.JSON(http.StatusOK, banners)
}

func (h *PublicHandler) ListAnnouncements(c *gin.Context) {
	var announcements []models.Announcement
	if err := database.DB.Where("is_active = ?", true).Order("created_at desc").Find(&announcements).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch announcements"})
		return
	}
	c.JSON(http.StatusOK, announcements)
}

// ProductInquiry builds a prefilled WhatsApp chat link for a product
// question; the store number comes from configuration.
func (h *PublicHandler) ProductInquiry(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	msg := fmt.Sprintf("Hello! I would like to know more about *%s* (%s).", product.Name, product.WeightLabel)
	c.JSON(http.StatusOK, gin.H{
		"whatsapp_url": payment.WhatsAppLink(config.AppConfig.Defaults.WhatsappNumber, msg),
	})
}
