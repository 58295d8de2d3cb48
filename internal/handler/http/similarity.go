package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/pkg/httputil"
)

// Plain-text acknowledgements of the relation endpoints.
const (
	msgSimilarAdded   = "Similar products added successfully"
	msgSimilarRemoved = "Similar links removed successfully"
)

// RelationRequest is one pair in an add-similar body.
type RelationRequest struct {
	ProductID        string `json:"productId" validate:"required"`
	SimilarProductID string `json:"similarProductId" validate:"required"`
}

// AddSimilarRequest is the JSON body of POST /products/add-similar.
type AddSimilarRequest struct {
	Relations []RelationRequest `json:"relations" validate:"required,min=1,dive"`
}

// RemoveSimilarRequest is the JSON body of POST /products/remove-similar.
type RemoveSimilarRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,dive,required"`
}

// GetSimilar handles GET /products/{id}/similar.
func (h *ProductHandler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Similar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// AddSimilar handles POST /products/add-similar.
func (h *ProductHandler) AddSimilar(w http.ResponseWriter, r *http.Request) {
	var req AddSimilarRequest
	if !decode(w, r, &req) {
		return
	}

	relations := make([]domain.Relation, len(req.Relations))
	for i, rel := range req.Relations {
		relations[i] = domain.Relation{ProductID: rel.ProductID, SimilarProductID: rel.SimilarProductID}
	}

	if err := h.service.AddSimilar(r.Context(), relations); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteText(w, http.StatusCreated, msgSimilarAdded)
}

// RemoveSimilar handles POST /products/remove-similar.
func (h *ProductHandler) RemoveSimilar(w http.ResponseWriter, r *http.Request) {
	var req RemoveSimilarRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.RemoveSimilar(r.Context(), req.ProductIDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteText(w, http.StatusOK, msgSimilarRemoved)
}
