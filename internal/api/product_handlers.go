package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/models"
	"github.com/stockroomhq/stockroom/internal/store"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Quantity    *int64  `json:"quantity"`
}

// updateProductRequest distinguishes omitted fields (left unchanged) from
// supplied ones. Quantity uses json.RawMessage so an explicit null (switch
// to untracked stock) is distinguishable from an omitted key.
type updateProductRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Price       *float64        `json:"price"`
	Quantity    json.RawMessage `json:"quantity"`
}

type productResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	Price          float64   `json:"price"`
	Quantity       *int64    `json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
}

func toProductResponse(p *models.Product) productResponse {
	return productResponse{
		ID:             p.ProductID.String(),
		OrganizationID: p.OrgID.String(),
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Quantity:       p.Quantity,
		CreatedAt:      p.CreatedAt,
	}
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), identity.OrgID, catalog.CreateProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	products, err := h.catalog.List(r.Context(), identity.OrgID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	responses := make([]productResponse, 0, len(products))
	for _, product := range products {
		responses = append(responses, toProductResponse(product))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	productID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	product, err := h.catalog.Get(r.Context(), identity.OrgID, productID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	productID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := store.ProductUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}

	if len(req.Quantity) > 0 {
		update.SetQuantity = true
		if string(req.Quantity) != "null" {
			var qty int64
			if err := json.Unmarshal(req.Quantity, &qty); err != nil {
				writeError(w, http.StatusBadRequest, "invalid quantity")
				return
			}
			update.Quantity = &qty
		}
	}

	product, err := h.catalog.Update(r.Context(), identity.OrgID, productID, update)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	productID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := h.catalog.Delete(r.Context(), identity.OrgID, productID); err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
