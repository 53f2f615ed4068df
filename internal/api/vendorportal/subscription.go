// subscription.go implements subscription order creation. The vendor picks a
// paid plan, the server creates a gateway order for the plan's fixed price,
// and the client completes checkout against the gateway. The tier itself only
// changes when the signed payment callback is verified.
package vendorportal

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorhub/vendorhub/internal/db/repositories"
	"github.com/vendorhub/vendorhub/internal/payment"
)

// SubscriptionHandlers handles subscription order creation.
type SubscriptionHandlers struct {
	vendorRepo *repositories.VendorRepository
	provider   payment.Provider
	currency   string
}

// NewSubscriptionHandlers creates the subscription handlers. Orders are
// denominated in currency, an ISO code like "INR".
func NewSubscriptionHandlers(db *sql.DB, provider payment.Provider, currency string) *SubscriptionHandlers {
	return &SubscriptionHandlers{
		vendorRepo: repositories.NewVendorRepository(db),
		provider:   provider,
		currency:   currency,
	}
}

type orderRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// @Summary      Create subscription order
// @Description  Create a payment gateway order for a paid plan. The amount is the server-side plan price; client-supplied amounts are never accepted.
// @Tags         Vendor
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "order_id, amount_minor, currency, plan"
// @Failure      400  {object}  map[string]interface{}  "Unknown or unpurchasable plan"
// @Router       /api/v1/vendor/subscription/order [post]
// CreateOrder creates a gateway order for the requested plan.
// POST /api/v1/vendor/subscription/order
func (h *SubscriptionHandlers) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, ok := payment.PlanPrices[req.Plan]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown plan %q", req.Plan)})
		return
	}

	vendor := currentVendor(c, h.vendorRepo)
	if vendor == nil {
		return
	}
	if !vendor.IsApproved() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only approved vendors can subscribe"})
		return
	}

	receipt := fmt.Sprintf("sub_%s_%s", req.Plan, vendor.ID)
	order, err := h.provider.CreateOrder(c.Request.Context(), amount, h.currency, receipt)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":     order.ID,
		"amount_minor": order.AmountMinor,
		"currency":     order.Currency,
		"plan":         req.Plan,
	})
}
