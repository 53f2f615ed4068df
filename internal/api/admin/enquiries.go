// enquiries.go implements the operator view of storefront enquiries.
package admin

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
)

// EnquiryHandlers handles enquiry review.
type EnquiryHandlers struct {
	enquiryRepo *repositories.EnquiryRepository
}

// NewEnquiryHandlers creates the enquiry handlers.
func NewEnquiryHandlers(db *sql.DB) *EnquiryHandlers {
	return &EnquiryHandlers{enquiryRepo: repositories.NewEnquiryRepository(db)}
}

// ListEnquiries lists enquiries newest first, optionally filtered by vendor.
// GET /api/v1/admin/enquiries
func (h *EnquiryHandlers) ListEnquiries(c *gin.Context) {
	limit, offset := pagination(c)

	enquiries, err := h.enquiryRepo.List(c.Request.Context(), c.Query("vendor_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list enquiries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"enquiries": enquiries})
}

// DeleteEnquiry removes an enquiry.
// DELETE /api/v1/admin/enquiries/:id
func (h *EnquiryHandlers) DeleteEnquiry(c *gin.Context) {
	if err := h.enquiryRepo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Enquiry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete enquiry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Enquiry deleted"})
}
