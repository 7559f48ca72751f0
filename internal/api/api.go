// Package api exposes the catalog, order, and analytics services over a
// JSON HTTP interface. Handlers resolve the caller's organization from the
// authenticated identity and pass it explicitly into every service call.
package api

import (
	"net/http"

	"github.com/stockroomhq/stockroom/internal/analytics"
	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/orders"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	auth      *auth.Service
	catalog   *catalog.Service
	orders    *orders.Engine
	analytics *analytics.Aggregator
}

// NewHandler creates the API handler.
func NewHandler(authSvc *auth.Service, catalogSvc *catalog.Service, engine *orders.Engine, aggregator *analytics.Aggregator) *Handler {
	return &Handler{
		auth:      authSvc,
		catalog:   catalogSvc,
		orders:    engine,
		analytics: aggregator,
	}
}

// Routes builds the route table. Signup, login, and health are public;
// everything else sits behind the auth middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("POST /signup", h.handleSignup)
	mux.HandleFunc("POST /login", h.handleLogin)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /products", h.handleCreateProduct)
	authed.HandleFunc("GET /products", h.handleListProducts)
	authed.HandleFunc("GET /products/{id}", h.handleGetProduct)
	authed.HandleFunc("PATCH /products/{id}", h.handleUpdateProduct)
	authed.HandleFunc("DELETE /products/{id}", h.handleDeleteProduct)

	authed.HandleFunc("POST /orders", h.handlePlaceOrder)
	authed.HandleFunc("GET /orders", h.handleListOrders)
	authed.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	authed.HandleFunc("PUT /orders/{id}/fulfillment", h.handleRecomputeFulfillment)

	authed.HandleFunc("GET /analytics/sales-trend", h.handleSalesTrend)
	authed.HandleFunc("GET /analytics/inventory", h.handleInventorySnapshot)
	authed.HandleFunc("GET /analytics/average-sales", h.handleAverageSales)

	mux.Handle("/", h.auth.Middleware()(authed))

	return mux
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
