package shopify

import "time"

// ordersResponse is the envelope of GET /admin/api/{version}/orders.json
type ordersResponse struct {
	Orders []orderPayload `json:"orders"`
}

// orderPayload carries the order fields the scanner cares about
type orderPayload struct {
	Name              string          `json:"name"`
	Tags              string          `json:"tags"`
	FulfillmentStatus string          `json:"fulfillment_status"`
	FinancialStatus   string          `json:"financial_status"`
	CancelledAt       *time.Time      `json:"cancelled_at"`
	CreatedAt         time.Time       `json:"created_at"`
	Phone             string          `json:"phone"`
	TotalPrice        string          `json:"total_price"`
	Currency          string          `json:"currency"`
	Customer          *customerInfo   `json:"customer"`
	ShippingAddress   *addressPayload `json:"shipping_address"`
}

type customerInfo struct {
	Phone string `json:"phone"`
}

type addressPayload struct {
	Phone string `json:"phone"`
}

// bestPhone returns the first non-empty phone, preferring the order's
// own phone, then the shipping address, then the customer profile.
func (o *orderPayload) bestPhone() string {
	if o.Phone != "" {
		return o.Phone
	}
	if o.ShippingAddress != nil && o.ShippingAddress.Phone != "" {
		return o.ShippingAddress.Phone
	}
	if o.Customer != nil {
		return o.Customer.Phone
	}
	return ""
}
