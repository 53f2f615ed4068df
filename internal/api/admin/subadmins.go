// subadmins.go implements subadmin account management. The router mounts these
// behind an admin-only role gate; subadmins cannot manage operator accounts.
package admin

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

// SubadminHandlers handles subadmin account management.
type SubadminHandlers struct {
	adminRepo *repositories.AdminUserRepository
}

// NewSubadminHandlers creates the subadmin handlers.
func NewSubadminHandlers(db *sql.DB) *SubadminHandlers {
	return &SubadminHandlers{adminRepo: repositories.NewAdminUserRepository(db)}
}

// ListSubadmins lists subadmin accounts.
// GET /api/v1/admin/subadmins
func (h *SubadminHandlers) ListSubadmins(c *gin.Context) {
	limit, offset := pagination(c)

	users, err := h.adminRepo.List(c.Request.Context(), models.RoleSubadmin, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list subadmins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subadmins": users})
}

type createSubadminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// @Summary      Create subadmin
// @Description  Create a subadmin operator account. Admin role required.
// @Tags         Admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.AdminUser
// @Failure      409  {object}  map[string]interface{}  "Email already registered"
// @Router       /api/v1/admin/subadmins [post]
// CreateSubadmin creates a subadmin account.
// POST /api/v1/admin/subadmins
func (h *SubadminHandlers) CreateSubadmin(c *gin.Context) {
	var req createSubadminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := &models.AdminUser{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         models.RoleSubadmin,
	}
	if err := h.adminRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subadmin"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

type updateSubadminRequest struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=8"`
}

// UpdateSubadmin updates a subadmin's name and optionally resets the password.
// PUT /api/v1/admin/subadmins/:id
func (h *SubadminHandlers) UpdateSubadmin(c *gin.Context) {
	var req updateSubadminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.adminRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subadmin"})
		return
	}
	if user == nil || user.Role != models.RoleSubadmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subadmin not found"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		user.PasswordHash = hash
	}

	if err := h.adminRepo.Update(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update subadmin"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteSubadmin removes a subadmin account. Full admin accounts cannot be
// deleted through this endpoint, including the caller's own.
// DELETE /api/v1/admin/subadmins/:id
func (h *SubadminHandlers) DeleteSubadmin(c *gin.Context) {
	user, err := h.adminRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subadmin"})
		return
	}
	if user == nil || user.Role != models.RoleSubadmin {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subadmin not found"})
		return
	}

	if sess := middleware.SessionFrom(c); sess != nil && sess.UserID == user.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	if err := h.adminRepo.Delete(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subadmin"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subadmin deleted"})
}
