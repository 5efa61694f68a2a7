package http

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Marin-gh/shopping-app-backend/internal/service"
	"github.com/Marin-gh/shopping-app-backend/pkg/httputil"
	"github.com/Marin-gh/shopping-app-backend/pkg/middleware"
	"github.com/Marin-gh/shopping-app-backend/pkg/validator"
)

// maxProductBody caps request bodies that may carry base64 image payloads.
const maxProductBody = 10 << 20

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ImageRequest is one image submitted with a product, base64 encoded.
type ImageRequest struct {
	Name        string `json:"name" validate:"required"`
	ContentType string `json:"content_type"`
	Data        string `json:"data" validate:"required"`
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Title       string         `json:"title" validate:"required,max=20"`
	Description string         `json:"description" validate:"required,max=150"`
	Price       float64        `json:"price" validate:"gte=0"`
	Location    string         `json:"location" validate:"required"`
	Images      []ImageRequest `json:"images" validate:"dive"`
}

// UpdateProductRequest is the JSON request body for updating a product.
// Absent fields are left unchanged; images are appended.
type UpdateProductRequest struct {
	Title       *string        `json:"title" validate:"omitempty,max=20"`
	Description *string        `json:"description" validate:"omitempty,max=150"`
	Price       *float64       `json:"price" validate:"omitempty,gte=0"`
	Location    *string        `json:"location"`
	Images      []ImageRequest `json:"images" validate:"dive"`
}

func decodeImages(images []ImageRequest) ([]service.ImageUpload, error) {
	uploads := make([]service.ImageUpload, 0, len(images))
	for _, img := range images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, service.ImageUpload{
			Name:        img.Name,
			ContentType: img.ContentType,
			Data:        data,
		})
	}
	return uploads, nil
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProductBody)

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	images, err := decodeImages(req.Images)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid image encoding: " + err.Error()},
		})
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		AuthorID:    middleware.PrincipalFromContext(r.Context()),
		Images:      images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, maxProductBody)

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	images, err := decodeImages(req.Images)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid image encoding: " + err.Error()},
		})
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id, middleware.PrincipalFromContext(r.Context()), &service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Images:      images,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteProduct(r.Context(), id, middleware.PrincipalFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
