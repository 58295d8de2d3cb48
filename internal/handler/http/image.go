package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shop-project/catalog/pkg/httputil"
)

const (
	msgImagesAdded   = "Images added successfully"
	msgImagesRemoved = "Images removed successfully"
)

// AddImagesRequest is the JSON body of POST /products/add-images.
type AddImagesRequest struct {
	ProductID string         `json:"productId" validate:"required"`
	Images    []ImageRequest `json:"images" validate:"required,min=1,dive"`
}

// RemoveImagesRequest is the JSON body of POST /products/remove-images.
type RemoveImagesRequest struct {
	ImageIDs []string `json:"imageIds" validate:"required,min=1,dive,required"`
}

// ReplaceThumbnailRequest is the JSON body of POST /products/update-thumbnail/{id}.
type ReplaceThumbnailRequest struct {
	NewThumbnailID string `json:"newThumbnailId" validate:"required"`
}

// AddImages handles POST /products/add-images.
func (h *ProductHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	var req AddImagesRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.AddImages(r.Context(), req.ProductID, toNewImages(req.Images)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteText(w, http.StatusCreated, msgImagesAdded)
}

// RemoveImages handles POST /products/remove-images.
func (h *ProductHandler) RemoveImages(w http.ResponseWriter, r *http.Request) {
	var req RemoveImagesRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.service.RemoveImages(r.Context(), req.ImageIDs); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteText(w, http.StatusOK, msgImagesRemoved)
}

// ReplaceThumbnail handles POST /products/update-thumbnail/{id}.
func (h *ProductHandler) ReplaceThumbnail(w http.ResponseWriter, r *http.Request) {
	var req ReplaceThumbnailRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := h.service.ReplaceThumbnail(r.Context(), chi.URLParam(r, "id"), req.NewThumbnailID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}
