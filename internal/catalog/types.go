package catalog

// Product mirrors the commerce API's product representation. Reviews are
// embedded in the product read model, which is why review creation
// invalidates the product cache.
type Product struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Image       string   `json:"image"`
	Stock       int      `json:"stock"`
	Description string   `json:"description,omitempty"`
	CategoryID  string   `json:"categoryId"`
	ColorID     string   `json:"colorId,omitempty"`
	Reviews     []Review `json:"reviews,omitempty"`
}

// Review is one product review as embedded in the product read model.
type Review struct {
	ID        string `json:"_id"`
	ProductID string `json:"productId,omitempty"`
	UserID    string `json:"userId,omitempty"`
	Review    string `json:"review"`
	Rating    int    `json:"rating"`
	CreatedAt string `json:"createdAt,omitempty"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Color struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ProductInput is the payload for product create/update.
type ProductInput struct {
	CategoryID  string  `json:"categoryId"`
	ColorID     string  `json:"colorId,omitempty"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// ReviewInput is the payload for review creation.
type ReviewInput struct {
	ProductID string `json:"productId"`
	Review    string `json:"review"`
	Rating    int    `json:"rating"`
}

// ProductFilter narrows and orders product listings.
type ProductFilter struct {
	CategoryID string
	ColorID    string
	SortBy     string // name|price
	SortOrder  string // asc|desc
}
