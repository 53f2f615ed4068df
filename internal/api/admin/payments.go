// payments.go exposes the verified payment ledger to operators.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
)

// PaymentAdminHandlers handles the operator payment views.
type PaymentAdminHandlers struct {
	paymentRepo *repositories.PaymentRepository
}

// NewPaymentAdminHandlers creates the payment admin handlers.
func NewPaymentAdminHandlers(sqlxDB *sqlx.DB) *PaymentAdminHandlers {
	return &PaymentAdminHandlers{paymentRepo: repositories.NewPaymentRepository(sqlxDB)}
}

// ListPayments lists verified payments newest first, optionally filtered by
// vendor.
// GET /api/v1/admin/payments
func (h *PaymentAdminHandlers) ListPayments(c *gin.Context) {
	limit, offset := pagination(c)

	payments, err := h.paymentRepo.List(c.Request.Context(), c.Query("vendor_id"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}
