package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// a status patch with neither field set would be a no-op upstream;
	// reject it before the request is sent.
	v.RegisterStructValidation(updateOrderStructValidation, UpdateOrderStatusRequest{})

	return v
}

func updateOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(UpdateOrderStatusRequest)
	if req.OrderStatus == "" && req.PaymentStatus == "" {
		sl.ReportError(req.OrderStatus, "orderStatus", "OrderStatus", "status_or_payment_required", "")
	}
}
