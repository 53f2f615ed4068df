// Package admin implements the operator console endpoints: vendor review and
// status changes, catalog management, enquiries, subadmin accounts, payments,
// and dashboard stats. Role enforcement happens in the router; handlers here
// assume an operator session.
package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/media"
	"github.com/vendorhub/vendorhub/internal/middleware"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pagination parses limit/offset query params with clamping.
func pagination(c *gin.Context) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}

// VendorAdminHandlers handles vendor review operations.
type VendorAdminHandlers struct {
	vendorRepo *repositories.VendorRepository
	auditRepo  *repositories.StatusAuditRepository
	media      *media.Service
}

// NewVendorAdminHandlers creates the vendor admin handlers.
func NewVendorAdminHandlers(db *sql.DB, sqlxDB *sqlx.DB, mediaSvc *media.Service) *VendorAdminHandlers {
	return &VendorAdminHandlers{
		vendorRepo: repositories.NewVendorRepository(db),
		auditRepo:  repositories.NewStatusAuditRepository(sqlxDB),
		media:      mediaSvc,
	}
}

// @Summary      List vendors
// @Description  List vendors in any status, optionally filtered by status, category, or search term.
// @Tags         Admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "vendors"
// @Router       /api/v1/admin/vendors [get]
// ListVendors lists vendors across all statuses.
// GET /api/v1/admin/vendors
func (h *VendorAdminHandlers) ListVendors(c *gin.Context) {
	limit, offset := pagination(c)

	status := c.Query("status")
	if status != "" && !models.IsValidVendorStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	filter := repositories.VendorFilter{
		Status:   status,
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	vendors, err := h.vendorRepo.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list vendors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// GetVendor returns one vendor regardless of status.
// GET /api/v1/admin/vendors/:id
func (h *VendorAdminHandlers) GetVendor(c *gin.Context) {
	vendor, err := h.vendorRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return
	}
	if vendor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	c.JSON(http.StatusOK, vendor)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      Set vendor status
// @Description  Move a vendor between pending, approved, and rejected. Every transition is recorded in the audit trail with the acting operator.
// @Tags         Admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "id, from_status, to_status"
// @Failure      400  {object}  map[string]interface{}  "Invalid status"
// @Failure      404  {object}  map[string]interface{}  "Vendor not found"
// @Router       /api/v1/admin/vendors/{id}/status [put]
// UpdateVendorStatus sets a vendor's review status. Transitions are
// unrestricted: any status may move to any other, including back to pending.
// PUT /api/v1/admin/vendors/:id/status
func (h *VendorAdminHandlers) UpdateVendorStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.IsValidVendorStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	id := c.Param("id")
	fromStatus, err := h.vendorRepo.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}

	sess := middleware.SessionFrom(c)
	entry := &models.VendorStatusAudit{
		VendorID:   id,
		FromStatus: fromStatus,
		ToStatus:   req.Status,
	}
	if sess != nil {
		entry.ActorID = sess.UserID
	}
	if err := h.auditRepo.Record(c.Request.Context(), entry); err != nil {
		// The status change itself has landed; surface the audit failure
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status updated but audit record failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          id,
		"from_status": fromStatus,
		"to_status":   req.Status,
	})
}

// ListStatusAudit returns the status transition history for a vendor, newest
// first.
// GET /api/v1/admin/vendors/:id/audit
func (h *VendorAdminHandlers) ListStatusAudit(c *gin.Context) {
	limit, offset := pagination(c)

	entries, err := h.auditRepo.ListByVendor(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list audit entries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit": entries})
}

// @Summary      Delete vendor
// @Description  Delete a vendor account. Gallery assets are removed best-effort first; asset failures are reported but never block the record deletion.
// @Tags         Admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "message, asset_errors"
// @Failure      404  {object}  map[string]interface{}  "Vendor not found"
// @Router       /api/v1/admin/vendors/{id} [delete]
// DeleteVendor removes a vendor and best-effort removes its media gallery.
// DELETE /api/v1/admin/vendors/:id
func (h *VendorAdminHandlers) DeleteVendor(c *gin.Context) {
	vendor, err := h.vendorRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load vendor"})
		return
	}
	if vendor == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
		return
	}

	// Assets first, log-and-continue; the record goes regardless.
	assetErrors := h.media.RemoveAll(c.Request.Context(), vendor.MediaURLs)

	if err := h.vendorRepo.Delete(c.Request.Context(), vendor.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vendor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete vendor"})
		return
	}

	resp := gin.H{"message": "Vendor deleted"}
	if len(assetErrors) > 0 {
		resp["asset_errors"] = assetErrors
	}
	c.JSON(http.StatusOK, resp)
}
