package domain

// Relation asks for two products to be marked similar. The relation is
// symmetric: linking (a, b) also links (b, a).
type Relation struct {
	ProductID        string
	SimilarProductID string
}
