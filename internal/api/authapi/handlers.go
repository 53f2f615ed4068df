// Package authapi implements login, registration, and session endpoints for
// both operator console accounts and vendor accounts.
package authapi

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/auth"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

// Handlers bundles the repositories the auth endpoints need.
type Handlers struct {
	adminRepo  *repositories.AdminUserRepository
	vendorRepo *repositories.VendorRepository
	cfg        *config.Config
}

// NewHandlers creates the auth endpoint handlers.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		adminRepo:  repositories.NewAdminUserRepository(db),
		vendorRepo: repositories.NewVendorRepository(db),
		cfg:        cfg,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Operator login
// @Description  Authenticate an admin or subadmin account and issue a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "token, user"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /v1/auth/login [post]
// AdminLogin authenticates an operator console account.
// POST /v1/auth/login
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.adminRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up account"})
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// Same response whether the email or the password was wrong
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateJWT(user.ID, user.Email, user.Role, h.cfg.Auth.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// @Summary      Vendor login
// @Description  Authenticate a vendor account. Vendors whose registration has not been approved cannot log in.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "token, vendor"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Failure      403  {object}  map[string]interface{}  "Registration not approved yet"
// @Router       /v1/auth/vendor/login [post]
// VendorLogin authenticates a vendor account. Pending and rejected vendors are
// turned away until an operator approves them.
// POST /v1/auth/vendor/login
func (h *Handlers) VendorLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := h.vendorRepo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up account"})
		return
	}
	if vendor == nil || !auth.CheckPassword(vendor.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !vendor.IsApproved() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration not approved yet"})
		return
	}

	token, err := auth.GenerateJWT(vendor.ID, vendor.Email, auth.RoleVendor, h.cfg.Auth.SessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"vendor": vendor,
	})
}

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// @Summary      Vendor registration
// @Description  Register a new vendor account. Accounts start in pending status and cannot log in until approved by an operator.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  models.Vendor
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      409  {object}  map[string]interface{}  "Email already registered"
// @Router       /v1/auth/vendor/register [post]
// VendorRegister creates a pending vendor account.
// POST /v1/auth/vendor/register
func (h *Handlers) VendorRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	vendor := &models.Vendor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
		Category:     req.Category,
		Description:  req.Description,
	}

	if err := h.vendorRepo.Create(c.Request.Context(), vendor); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

// @Summary      Current session
// @Description  Return the account behind the presented session token.
// @Tags         Auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "user or vendor profile"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/v1/me [get]
// Me returns the profile behind the current session.
// GET /api/v1/me
func (h *Handlers) Me(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if sess.Role == auth.RoleVendor {
		vendor, err := h.vendorRepo.GetByID(c.Request.Context(), sess.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
			return
		}
		if vendor == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": sess.Role, "vendor": vendor})
		return
	}

	user, err := h.adminRepo.GetByID(c.Request.Context(), sess.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"role": sess.Role,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
	})
}

// @Summary      Logout
// @Description  Session tokens are stateless, so logout is client-side; this endpoint exists so clients have a uniform call to make.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message"
// @Router       /v1/auth/logout [post]
// Logout acknowledges a logout. Tokens are stateless JWTs; the client discards
// its copy.
// POST /v1/auth/logout
func (h *Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
