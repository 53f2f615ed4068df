// products.go implements the vendor's product catalog, including image and
// video uploads.
package vendorportal

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/media"
)

// ProductHandlers handles vendor product management.
type ProductHandlers struct {
	vendorRepo  *repositories.VendorRepository
	productRepo *repositories.ProductRepository
	media       *media.Service
}

// NewProductHandlers creates the product handlers.
func NewProductHandlers(db *sql.DB, mediaSvc *media.Service) *ProductHandlers {
	return &ProductHandlers{
		vendorRepo:  repositories.NewVendorRepository(db),
		productRepo: repositories.NewProductRepository(db),
		media:       mediaSvc,
	}
}

// ownProduct loads a product and verifies it belongs to the session vendor. A
// nil return means the response has already been written. Foreign products
// are reported as absent rather than forbidden.
func (h *ProductHandlers) ownProduct(c *gin.Context, vendorID string) *models.Product {
	product, err := h.productRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product"})
		return nil
	}
	if product == nil || product.VendorID != vendorID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return nil
	}
	return product
}

// ListProducts lists the session vendor's products.
// GET /api/v1/vendor/products
func (h *ProductHandlers) ListProducts(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	products, err := h.productRepo.List(c.Request.Context(), repositories.ProductFilter{VendorID: vendor.ID}, 100, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	PriceMinor  int64   `json:"price_minor" binding:"min=0"`
	CategoryID  *string `json:"category_id"`
}

// CreateProduct creates a product. Media is attached through the upload
// endpoints afterwards.
// POST /api/v1/vendor/products
func (h *ProductHandlers) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	product := &models.Product{
		VendorID:    vendor.ID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
	}
	if err := h.productRepo.Create(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct updates a product's descriptive fields.
// PUT /api/v1/vendor/products/:id
func (h *ProductHandlers) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	product := h.ownProduct(c, vendor.ID)
	if product == nil {
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.PriceMinor = req.PriceMinor
	product.CategoryID = req.CategoryID

	if err := h.productRepo.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// UploadProductImage replaces a product's image. The previous image, if any,
// is removed best-effort after the new one is stored.
// POST /api/v1/vendor/products/:id/image
func (h *ProductHandlers) UploadProductImage(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	product := h.ownProduct(c, vendor.ID)
	if product == nil {
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	asset, err := h.media.Upload(c.Request.Context(), "products", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	previous := product.ImageURL
	product.ImageURL = asset.URL
	if err := h.productRepo.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	if previous != "" {
		h.media.RemoveAll(c.Request.Context(), []string{previous})
	}

	c.JSON(http.StatusOK, product)
}

// UploadProductVideo appends a video to the product's gallery.
// POST /api/v1/vendor/products/:id/videos
func (h *ProductHandlers) UploadProductVideo(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	product := h.ownProduct(c, vendor.ID)
	if product == nil {
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	asset, err := h.media.Upload(c.Request.Context(), "products", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store video"})
		return
	}

	product.VideoURLs = append(product.VideoURLs, asset.URL)
	if err := h.productRepo.Update(c.Request.Context(), product); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and best-effort removes its image and
// videos.
// DELETE /api/v1/vendor/products/:id
func (h *ProductHandlers) DeleteProduct(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	product := h.ownProduct(c, vendor.ID)
	if product == nil {
		return
	}

	assets := append([]string{}, product.VideoURLs...)
	if product.ImageURL != "" {
		assets = append(assets, product.ImageURL)
	}
	assetErrors := h.media.RemoveAll(c.Request.Context(), assets)

	if err := h.productRepo.Delete(c.Request.Context(), product.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}

	resp := gin.H{"message": "Product deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
