package cart

import "sync"

// ProductSnapshot is the subset of product fields copied into the cart at
// add time. It is not a live reference: later price changes upstream do not
// touch existing line items.
type ProductSnapshot struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// LineItem is one product-plus-quantity entry in a cart.
type LineItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// ActionType enumerates the cart mutations.
type ActionType string

const (
	ActionAdd            ActionType = "ADD"
	ActionRemove         ActionType = "REMOVE"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClear          ActionType = "CLEAR"
)

// Action is one typed cart mutation. Product is read for ADD; ProductID for
// REMOVE and UPDATE_QUANTITY; Quantity for UPDATE_QUANTITY.
type Action struct {
	Type      ActionType
	Product   ProductSnapshot
	ProductID string
	Quantity  int
}

// Cart holds the line items one shopper has selected. All operations are
// total: they mutate local state only and cannot fail. Quantity is never
// checked against live stock here; that happens at checkout-adjacent reads.
type Cart struct {
	mu    sync.Mutex
	items []LineItem
}

func New() *Cart {
	return &Cart{}
}

// Apply dispatches a typed action into the cart. Unknown action types are
// ignored.
func (c *Cart) Apply(a Action) {
	switch a.Type {
	case ActionAdd:
		c.Add(a.Product)
	case ActionRemove:
		c.Remove(a.ProductID)
	case ActionUpdateQuantity:
		c.UpdateQuantity(a.ProductID, a.Quantity)
	case ActionClear:
		c.Clear()
	}
}

// Add puts a product in the cart. A product already present has its
// quantity incremented by one; a new product always starts at quantity 1.
// Invariant: at most one line item per product id.
func (c *Cart) Add(p ProductSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, LineItem{Product: p, Quantity: 1})
}

// Remove deletes the line item for productID. No-op if absent.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

func (c *Cart) removeLocked(productID string) {
	kept := c.items[:0]
	for _, it := range c.items {
		if it.Product.ID != productID {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// UpdateQuantity sets the quantity for productID. A quantity of zero or
// less removes the line item. No-op if productID is absent.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if quantity <= 0 {
		c.removeLocked(productID)
		return
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// Clear empties the cart. Called after payment completion is confirmed and
// on explicit request.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a snapshot copy of the line items.
func (c *Cart) Items() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total returns the sum of unit price times quantity across line items,
// priced at the snapshots taken when each product was added.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, it := range c.items {
		total += it.Product.Price * float64(it.Quantity)
	}
	return total
}

// Len returns the number of line items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
