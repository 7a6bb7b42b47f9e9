package validation

// ShippingAddressForm mirrors the checkout address schema: line_1, city and
// phone are required, line_2 is optional.
type ShippingAddressForm struct {
	Line1 string `json:"line_1" validate:"required,min=1,max=50"`
	Line2 string `json:"line_2" validate:"omitempty,min=1,max=50"`
	City  string `json:"city" validate:"required,min=1,max=50"`
	Phone string `json:"phone" validate:"required,min=1,max=15"`
}

// CheckoutRequest is the payload for POST /checkout. The order items come
// from the caller's session cart, not the request body.
type CheckoutRequest struct {
	ShippingAddress ShippingAddressForm `json:"shippingAddress" validate:"required"`
}

// CartAddRequest is the payload for POST /cart: the product snapshot to
// drop into the cart. Quantity is not accepted; adds always increment by
// one.
type CartAddRequest struct {
	ProductID string  `json:"_id" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Image     string  `json:"image"`
}

// CartQuantityRequest sets a line item's quantity. Zero and below remove
// the item, so no lower bound is enforced here.
type CartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CreateProductRequest is the admin payload for product create/update.
type CreateProductRequest struct {
	CategoryID  string  `json:"categoryId" validate:"required"`
	ColorID     string  `json:"colorId" validate:"omitempty"`
	Name        string  `json:"name" validate:"required"`
	Image       string  `json:"image" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"omitempty"`
}

// CreateReviewRequest is the payload for POST /reviews.
type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Review    string `json:"review" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
}

// UpdateOrderStatusRequest patches order and/or payment status. At least
// one field must be present; enforced by struct-level validation.
type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus" validate:"omitempty,oneof=PENDING SHIPPED FULFILLED CANCELLED"`
	PaymentStatus string `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID REFUNDED"`
}

// CreatePaymentSessionRequest opens a hosted-checkout session.
type CreatePaymentSessionRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// ImageUploadRequest asks for a presigned image upload slot.
type ImageUploadRequest struct {
	FileType string `json:"fileType" validate:"required"`
}
