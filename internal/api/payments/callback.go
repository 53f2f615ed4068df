// Package payments implements the gateway payment callback. The gateway (or
// the client relaying its checkout result) posts the order id, payment id,
// and an HMAC signature; the server recomputes the signature with the secret
// key, records the payment exactly once, and upgrades the vendor's
// subscription tier. Replayed callbacks are acknowledged without side
// effects.
package payments

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/vendorhub/vendorhub/internal/config"
	"github.com/vendorhub/vendorhub/internal/db/models"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/payment"
	"github.com/vendorhub/vendorhub/internal/telemetry"
)

// Callback outcome labels for telemetry.
const (
	outcomeVerified = "verified"
	outcomeReplay   = "replay"
	outcomeRejected = "rejected"
)

// Handlers handles payment gateway callbacks.
type Handlers struct {
	paymentRepo *repositories.PaymentRepository
	vendorRepo  *repositories.VendorRepository
	cfg         *config.Config
}

// NewHandlers creates the payment callback handlers.
func NewHandlers(db *sql.DB, sqlxDB *sqlx.DB, cfg *config.Config) *Handlers {
	return &Handlers{
		paymentRepo: repositories.NewPaymentRepository(sqlxDB),
		vendorRepo:  repositories.NewVendorRepository(db),
		cfg:         cfg,
	}
}

type callbackRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" binding:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" binding:"required"`
	Signature        string `json:"signature" binding:"required"`
	VendorID         string `json:"vendor_id" binding:"required"`
	Plan             string `json:"plan" binding:"required"`
}

// @Summary      Payment callback
// @Description  Verify a gateway checkout result. The signature is an HMAC-SHA256 of "order_id|payment_id" under the gateway key secret; nothing the client asserts is trusted without it. The payment id is recorded under a unique constraint, so replaying a valid callback acknowledges without granting anything twice.
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, plan"
// @Failure      400  {object}  map[string]interface{}  "Malformed callback or unknown plan"
// @Failure      401  {object}  map[string]interface{}  "Signature verification failed"
// @Router       /v1/payments/callback [post]
// Callback verifies and records a gateway payment.
// POST /v1/payments/callback
func (h *Handlers) Callback(c *gin.Context) {
	var req callbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		telemetry.PaymentCallbacksTotal.WithLabelValues(outcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := payment.PlanPrices[req.Plan]
	if !ok {
		telemetry.PaymentCallbacksTotal.WithLabelValues(outcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan"})
		return
	}

	if !payment.VerifyCallbackSignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, h.cfg.Payment.KeySecret) {
		telemetry.PaymentCallbacksTotal.WithLabelValues(outcomeRejected).Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Signature verification failed"})
		return
	}

	record := &models.Payment{
		VendorID:         req.VendorID,
		GatewayOrderID:   req.GatewayOrderID,
		GatewayPaymentID: req.GatewayPaymentID,
		AmountMinor:      amount,
		Currency:         h.cfg.Payment.Currency,
		Plan:             req.Plan,
		Status:           "verified",
	}
	inserted, err := h.paymentRepo.CreateIfAbsent(c.Request.Context(), record)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
		return
	}

	if !inserted {
		// Replay of an already-verified payment. Acknowledge so the gateway
		// stops retrying, but grant nothing twice.
		telemetry.PaymentCallbacksTotal.WithLabelValues(outcomeReplay).Inc()
		c.JSON(http.StatusOK, gin.H{"status": "already processed", "plan": req.Plan})
		return
	}

	if err := h.vendorRepo.UpdateSubscriptionTier(c.Request.Context(), req.VendorID, req.Plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment recorded but tier update failed"})
		return
	}

	telemetry.PaymentCallbacksTotal.WithLabelValues(outcomeVerified).Inc()
	c.JSON(http.StatusOK, gin.H{"status": "verified", "plan": req.Plan})
}
