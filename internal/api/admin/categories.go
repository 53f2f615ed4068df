// categories.go implements management of storefront categories, including
// category image uploads.
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

// CategoryHandlers handles category management.
type CategoryHandlers struct {
	categoryRepo *repositories.CategoryRepository
	media        *media.Service
}

// NewCategoryHandlers creates the category handlers.
func NewCategoryHandlers(db *sql.DB, mediaSvc *media.Service) *CategoryHandlers {
	return &CategoryHandlers{
		categoryRepo: repositories.NewCategoryRepository(db),
		media:        mediaSvc,
	}
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory creates a category.
// POST /api/v1/admin/categories
func (h *CategoryHandlers) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := &models.Category{Name: req.Name}
	if err := h.categoryRepo.Create(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category.
// PUT /api/v1/admin/categories/:id
func (h *CategoryHandlers) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	category.Name = req.Name
	if err := h.categoryRepo.Update(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// @Summary      Upload category image
// @Tags         Admin
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Category image (max 10MB)"
// @Success      200  {object}  models.Category
// @Router       /api/v1/admin/categories/{id}/image [post]
// UploadCategoryImage replaces a category's image. The previous image, if any,
// is removed best-effort after the new one is stored.
// POST /api/v1/admin/categories/:id/image
func (h *CategoryHandlers) UploadCategoryImage(c *gin.Context) {
	category, err := h.categoryRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	filename, data, errMsg := readFormFile(c)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	asset, err := h.media.Upload(c.Request.Context(), "categories", filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	previous := category.ImageURL
	category.ImageURL = asset.URL
	if err := h.categoryRepo.Update(c.Request.Context(), category); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update category"})
		return
	}

	if previous != "" {
		h.media.RemoveAll(c.Request.Context(), []string{previous})
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category and best-effort removes its image.
// DELETE /api/v1/admin/categories/:id
func (h *CategoryHandlers) DeleteCategory(c *gin.Context) {
	category, err := h.categoryRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var assetErrors []media.AssetError
	if category.ImageURL != "" {
		assetErrors = h.media.RemoveAll(c.Request.Context(), []string{category.ImageURL})
	}

	if err := h.categoryRepo.Delete(c.Request.Context(), category.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete category"})
		return
	}

	resp := gin.H{"message": "Category deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
