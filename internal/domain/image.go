package domain

// Image is a picture attached to a product. More than one image of a product
// may be flagged Main.
type Image struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	URL       string `json:"url"`
	Main      bool   `json:"main"`
}

// NewImage is an image to attach to a product.
type NewImage struct {
	URL  string
	Main bool
}
