package domain

// Comment is a customer remark on a product.
type Comment struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Body      string `json:"body"`
}

// NewComment holds the fields accepted when a comment is created.
type NewComment struct {
	ProductID string
	Name      string
	Email     string
	Body      string
}
