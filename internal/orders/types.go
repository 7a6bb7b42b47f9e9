package orders

// Order statuses. The gateway never computes transitions; it only submits
// creation and status-update requests.
const (
	StatusPending   = "PENDING"
	StatusShipped   = "SHIPPED"
	StatusFulfilled = "FULFILLED"
	StatusCancelled = "CANCELLED"
)

// Payment statuses
const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
)

// OrderItem is one product reference plus quantity within an order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// ShippingAddress is collected at checkout. line_2 is the only optional
// field.
type ShippingAddress struct {
	Line1 string `json:"line_1"`
	Line2 string `json:"line_2,omitempty"`
	City  string `json:"city"`
	Phone string `json:"phone"`
}

// Order is the server-owned order representation; the gateway references
// it, never owns it.
type Order struct {
	ID              string          `json:"_id"`
	UserID          string          `json:"userId,omitempty"`
	Items           []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	OrderStatus     string          `json:"orderStatus"`
	PaymentStatus   string          `json:"paymentStatus"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	CreatedAt       string          `json:"createdAt,omitempty"`
}

// CreateOrderInput is the body for order creation upstream.
type CreateOrderInput struct {
	OrderItems      []OrderItem     `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
}

// StatusUpdate carries the admin status patch. Either field may be empty.
type StatusUpdate struct {
	OrderStatus   string `json:"orderStatus,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

// SalesDay is one day of the trailing sales window.
type SalesDay struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"totalSales"`
	OrderCount int     `json:"orderCount"`
}
