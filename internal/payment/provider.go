// Package payment integrates the subscription payment gateway. The server
// creates an order through the gateway's REST API, the browser runs the
// checkout widget, and the gateway calls back with a payment id and an
// HMAC-SHA256 signature that is verified server-side before any record is
// written.
package payment

import "context"

// Order is the gateway-side order a checkout session runs against.
type Order struct {
	ID          string
	AmountMinor int64
	Currency    string
	Receipt     string
}

// Provider creates gateway orders for subscription purchases.
type Provider interface {
	// CreateOrder registers an order with the gateway and returns its id.
	// Amounts are in minor currency units (paise, cents).
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
}

// Plan prices in minor units, keyed by subscription tier.
var PlanPrices = map[string]int64{
	"silver": 49900,
	"gold":   99900,
}
