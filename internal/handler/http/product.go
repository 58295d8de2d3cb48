package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shop-project/catalog/internal/domain"
	"github.com/shop-project/catalog/internal/service"
	"github.com/shop-project/catalog/pkg/httputil"
)

// ProductHandler handles the product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// ImageRequest is one image in a create or add-images body.
type ImageRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Main bool   `json:"main"`
}

// CreateProductRequest is the JSON body of POST /products.
type CreateProductRequest struct {
	Title       *string             `json:"title" validate:"omitempty,max=255"`
	Description *string             `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
	Images      []ImageRequest      `json:"images" validate:"omitempty,dive"`
}

// UpdateProductRequest is the JSON body of PATCH /products/{id}. Absent
// fields are left unchanged.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
}

func toNewImages(in []ImageRequest) []domain.NewImage {
	if len(in) == 0 {
		return nil
	}
	images := make([]domain.NewImage, len(in))
	for i, img := range in {
		images[i] = domain.NewImage{URL: img.URL, Main: img.Main}
	}
	return images
}

func validPrice(w http.ResponseWriter, r *http.Request, field string, price *decimal.Decimal) bool {
	if price != nil && price.IsNegative() {
		httputil.WriteValidationError(w, r, fieldError(field, "must be greater than or equal to 0"))
		return false
	}
	return true
}

// --- Handlers ---

// ListProducts handles GET /products.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// SearchProducts handles GET /products/search.
func (h *ProductHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchFilter(r.URL.Query())
	if err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	products, err := h.service.Search(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /products/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Price.Valid && !validPrice(w, r, "price", &req.Price.Decimal) {
		return
	}

	product, err := h.service.Create(r.Context(), domain.NewProduct{
		Title:       nilIfBlank(req.Title),
		Description: nilIfBlank(req.Description),
		Price:       req.Price,
		Images:      toNewImages(req.Images),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PATCH /products/{id}.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decode(w, r, &req) {
		return
	}
	if !validPrice(w, r, "price", req.Price) {
		return
	}

	product, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), domain.ProductUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /products/{id}. Success has an empty body.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}
