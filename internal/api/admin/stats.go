// stats.go implements the operator dashboard counters.
package admin

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
)

// StatsHandlers aggregates counts for the admin dashboard.
type StatsHandlers struct {
	vendorRepo  *repositories.VendorRepository
	productRepo *repositories.ProductRepository
	enquiryRepo *repositories.EnquiryRepository
	paymentRepo *repositories.PaymentRepository
}

// NewStatsHandlers creates the stats handlers.
func NewStatsHandlers(db *sql.DB, sqlxDB *sqlx.DB) *StatsHandlers {
	return &StatsHandlers{
		vendorRepo:  repositories.NewVendorRepository(db),
		productRepo: repositories.NewProductRepository(db),
		enquiryRepo: repositories.NewEnquiryRepository(db),
		paymentRepo: repositories.NewPaymentRepository(sqlxDB),
	}
}

// @Summary      Dashboard stats
// @Description  Vendor counts by status, product and enquiry totals, and the verified payment volume.
// @Tags         Admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/v1/admin/stats [get]
// GetStats returns the dashboard counters.
// GET /api/v1/admin/stats
func (h *StatsHandlers) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	vendorsByStatus, err := h.vendorRepo.CountByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count vendors"})
		return
	}

	productCount, err := h.productRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count products"})
		return
	}

	enquiryCount, err := h.enquiryRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count enquiries"})
		return
	}

	paymentCount, err := h.paymentRepo.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count payments"})
		return
	}

	paymentVolume, err := h.paymentRepo.SumAmount(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sum payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vendors_by_status":    vendorsByStatus,
		"products":             productCount,
		"enquiries":            enquiryCount,
		"payments":             paymentCount,
		"payment_volume_minor": paymentVolume,
	})
}
