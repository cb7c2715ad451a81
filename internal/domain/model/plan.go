package model

// ActivationPolicy tells when a provisioned eSIM profile starts counting.
type ActivationPolicy string

const (
	// ActivatedByDevice plans start when the profile is installed.
	// This is also the fallback when the catalog lookup fails.
	ActivatedByDevice ActivationPolicy = "ACTIVATED_BY_DEVICE"
	// ActivatedByOrder plans start at an activation date sent with the order.
	ActivatedByOrder ActivationPolicy = "ACTIVATED_BY_ORDER"
)
