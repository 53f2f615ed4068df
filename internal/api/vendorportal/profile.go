// profile.go implements the vendor's own profile and media gallery.
package vendorportal

import (
	"bytes"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/media"
)

// ProfileHandlers handles vendor profile and gallery management.
type ProfileHandlers struct {
	vendorRepo *repositories.VendorRepository
	media      *media.Service
}

// NewProfileHandlers creates the profile handlers.
func NewProfileHandlers(db *sql.DB, mediaSvc *media.Service) *ProfileHandlers {
	return &ProfileHandlers{
		vendorRepo: repositories.NewVendorRepository(db),
		media:      mediaSvc,
	}
}

// GetProfile returns the session vendor's own record, whatever its status.
// GET /api/v1/vendor/profile
func (h *ProfileHandlers) GetProfile(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	c.JSON(http.StatusOK, vendor)
}

type profileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// UpdateProfile updates the vendor's descriptive fields. Email, status, and
// subscription tier are not editable here.
// PUT /api/v1/vendor/profile
func (h *ProfileHandlers) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	if req.Name != "" {
		vendor.Name = req.Name
	}
	vendor.Phone = req.Phone
	vendor.Address = req.Address
	vendor.Category = req.Category
	vendor.Description = req.Description

	if err := h.vendorRepo.Update(c.Request.Context(), vendor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, vendor)
}

// @Summary      Upload gallery media
// @Tags         Vendor
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image or video (max 50MB)"
// @Success      201  {object}  map[string]interface{}  "url, media_urls"
// @Router       /api/v1/vendor/media [post]
// UploadMedia adds a file to the vendor's gallery. Every upload lands under a
// fresh key, so re-uploading the same filename never clobbers the earlier one.
// POST /api/v1/vendor/media
func (h *ProfileHandlers) UploadMedia(c *gin.Context) {
	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	asset, err := h.media.Upload(c.Request.Context(), "vendors", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store media"})
		return
	}

	vendor.MediaURLs = append(vendor.MediaURLs, asset.URL)
	if err := h.vendorRepo.Update(c.Request.Context(), vendor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update gallery"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":        asset.URL,
		"media_urls": vendor.MediaURLs,
	})
}

type removeMediaRequest struct {
	URL string `json:"url" binding:"required"`
}

// RemoveMedia drops a URL from the vendor's gallery and best-effort deletes
// the backing asset. The gallery update wins even when the asset removal
// fails.
// DELETE /api/v1/vendor/media
func (h *ProfileHandlers) RemoveMedia(c *gin.Context) {
	var req removeMediaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}

	found := false
	kept := vendor.MediaURLs[:0]
	for _, u := range vendor.MediaURLs {
		if u == req.URL {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found in gallery"})
		return
	}
	vendor.MediaURLs = kept

	if err := h.vendorRepo.Update(c.Request.Context(), vendor); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update gallery"})
		return
	}

	assetErrors := h.media.RemoveAll(c.Request.Context(), []string{req.URL})

	resp := gin.H{"media_urls": vendor.MediaURLs}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
