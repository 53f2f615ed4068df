// banners.go implements management of the storefront home page banners.
package admin

import (
	"bytes"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/media"
)

// BannerHandlers handles banner management.
type BannerHandlers struct {
	bannerRepo *repositories.BannerRepository
	media      *media.Service
}

// NewBannerHandlers creates the banner handlers.
func NewBannerHandlers(db *sql.DB, mediaSvc *media.Service) *BannerHandlers {
	return &BannerHandlers{
		bannerRepo: repositories.NewBannerRepository(db),
		media:      mediaSvc,
	}
}

type bannerRequest struct {
	Title     string `json:"title" binding:"required"`
	TargetURL string `json:"target_url"`
	Position  int    `json:"position"`
}

// CreateBanner creates a banner. The image is attached separately through
// UploadBannerImage.
// POST /api/v1/admin/banners
func (h *BannerHandlers) CreateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner := &models.Banner{
		Title:     req.Title,
		TargetURL: req.TargetURL,
		Position:  req.Position,
	}
	if err := h.bannerRepo.Create(c.Request.Context(), banner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create banner"})
		return
	}

	c.JSON(http.StatusCreated, banner)
}

// UpdateBanner updates a banner's title, target URL, and position.
// PUT /api/v1/admin/banners/:id
func (h *BannerHandlers) UpdateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner, err := h.bannerRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load banner"})
		return
	}
	if banner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
		return
	}

	banner.Title = req.Title
	banner.TargetURL = req.TargetURL
	banner.Position = req.Position
	if err := h.bannerRepo.Update(c.Request.Context(), banner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update banner"})
		return
	}

	c.JSON(http.StatusOK, banner)
}

// UploadBannerImage replaces a banner's image. The previous image, if any, is
// removed best-effort after the new one is stored.
// POST /api/v1/admin/banners/:id/image
func (h *BannerHandlers) UploadBannerImage(c *gin.Context) {
	banner, err := h.bannerRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load banner"})
		return
	}
	if banner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	asset, err := h.media.Upload(c.Request.Context(), "banners", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	previous := banner.ImageURL
	banner.ImageURL = asset.URL
	if err := h.bannerRepo.Update(c.Request.Context(), banner); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update banner"})
		return
	}

	if previous != "" {
		h.media.RemoveAll(c.Request.Context(), []string{previous})
	}

	c.JSON(http.StatusOK, banner)
}

// DeleteBanner deletes a banner and best-effort removes its image.
// DELETE /api/v1/admin/banners/:id
func (h *BannerHandlers) DeleteBanner(c *gin.Context) {
	banner, err := h.bannerRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load banner"})
		return
	}
	if banner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
		return
	}

	var assetErrors []media.AssetError
	if banner.ImageURL != "" {
		assetErrors = h.media.RemoveAll(c.Request.Context(), []string{banner.ImageURL})
	}

	if err := h.bannerRepo.Delete(c.Request.Context(), banner.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete banner"})
		return
	}

	resp := gin.H{"message": "Banner deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
