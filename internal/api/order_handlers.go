package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/models"
)

type placeOrderRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type orderResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	ProductID      string    `json:"product_id"`
	Quantity       int64     `json:"quantity"`
	TotalPrice     float64   `json:"total_price"`
	Fulfilled      bool      `json:"fulfilled"`
	OrderedAt      time.Time `json:"ordered_at"`
}

func toOrderResponse(o *models.Order) orderResponse {
	return orderResponse{
		ID:             o.OrderID.String(),
		OrganizationID: o.OrgID.String(),
		ProductID:      o.ProductID.String(),
		Quantity:       o.Quantity,
		TotalPrice:     o.TotalPrice,
		Fulfilled:      o.Fulfilled,
		OrderedAt:      o.OrderedAt,
	}
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		// An unparseable product ID can't exist, same outcome as absent.
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	order, err := h.orders.Place(r.Context(), identity.OrgID, productID, req.Quantity)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	orders, err := h.orders.List(r.Context(), identity.OrgID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, toOrderResponse(order))
	}

	writeJSON(w, http.StatusOK, responses)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	orderID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	order, err := h.orders.Get(r.Context(), identity.OrgID, orderID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) handleRecomputeFulfillment(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	orderID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	order, err := h.orders.RecomputeFulfillment(r.Context(), identity.OrgID, orderID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}
