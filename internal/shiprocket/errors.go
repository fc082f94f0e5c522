package shiprocket

// AuthenticationError indicates the provider rejected our credentials or the
// login call itself failed. Message carries the provider's detail when one
// was returned.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "shiprocket auth failed: " + e.Message
}

// ShippingError indicates order creation failed, including the case where the
// single retry after re-authentication was exhausted.
type ShippingError struct {
	Message string
}

func (e *ShippingError) Error() string {
	return "shiprocket error: " + e.Message
}

// AWBGenerationError indicates courier assignment failed. The provider's
// detail is logged where the failure occurs but deliberately not carried here.
type AWBGenerationError struct{}

func (e *AWBGenerationError) Error() string {
	return "shiprocket AWB generation failed"
}
