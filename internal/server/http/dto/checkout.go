package dto

// CheckoutFormRequest asks for the payment-gateway redirect document.
type CheckoutFormRequest struct {
	OrderID string `json:"orderId"`
}

// FulfillRequest triggers provisioning for a paid order.
type FulfillRequest struct {
	OrderID string `json:"orderId"`
}

// PlanMappingRequest stores the vendor plan id for a storefront SKU.
type PlanMappingRequest struct {
	SKU    string `json:"sku"`
	PlanID string `json:"planId"`
}

// FulfillResponse reports the provisioning outcome.
type FulfillResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Codes   []QRCode `json:"codes"`
}
