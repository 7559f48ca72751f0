package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockroomhq/stockroom/internal/analytics"
	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/orders"
	"github.com/stockroomhq/stockroom/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tokens, err := auth.NewTokenIssuer([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	orgs := memory.NewOrganizationStore()
	users := memory.NewUserStore()
	products := memory.NewProductStore()
	orderStore := memory.NewOrderStore()
	tx := memory.NewTxManager()

	handler := NewHandler(
		auth.NewService(orgs, users, tx, tokens),
		catalog.NewService(products),
		orders.NewEngine(products, orderStore, tx),
		analytics.NewAggregator(memory.NewAnalyticsStore(products, orderStore)),
	)

	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)

	return resp, decoded
}

func signup(t *testing.T, srv *httptest.Server, email, orgName string) string {
	t.Helper()

	resp, body := doJSON(t, srv, http.MethodPost, "/signup", "", map[string]any{
		"email":             email,
		"password":          "secret-password",
		"organization_name": orgName,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	return token
}

func createProduct(t *testing.T, srv *httptest.Server, token string, body map[string]any) string {
	t.Helper()

	resp, decoded := doJSON(t, srv, http.MethodPost, "/products", token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, _ := decoded["id"].(string)
	require.NotEmpty(t, id)

	return id
}

func TestAPI_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", body["status"])
}

func TestAPI_SignupAndLogin(t *testing.T) {
	t.Run("signup then login with the same credentials", func(t *testing.T) {
		srv := newTestServer(t)

		signup(t, srv, "admin@acme.test", "Acme")

		resp, body := doJSON(t, srv, http.MethodPost, "/login", "", map[string]any{
			"email":    "admin@acme.test",
			"password": "secret-password",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "bearer", body["token_type"])
		require.NotEmpty(t, body["access_token"])
	})

	t.Run("duplicate organization name returns 409", func(t *testing.T) {
		srv := newTestServer(t)

		signup(t, srv, "one@acme.test", "Acme")

		resp, _ := doJSON(t, srv, http.MethodPost, "/signup", "", map[string]any{
			"email":             "two@acme.test",
			"password":          "secret-password",
			"organization_name": "Acme",
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		srv := newTestServer(t)

		signup(t, srv, "admin@acme.test", "Acme")

		resp, _ := doJSON(t, srv, http.MethodPost, "/login", "", map[string]any{
			"email":    "admin@acme.test",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("short password returns 400", func(t *testing.T) {
		srv := newTestServer(t)

		resp, _ := doJSON(t, srv, http.MethodPost, "/signup", "", map[string]any{
			"email":             "admin@acme.test",
			"password":          "short",
			"organization_name": "Acme",
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_AuthRequired(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/products", "/orders", "/analytics/inventory"} {
		resp, _ := doJSON(t, srv, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestAPI_Products(t *testing.T) {
	t.Run("create, get, list", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 5,
		})

		resp, body := doJSON(t, srv, http.MethodGet, "/products/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, "Widget", body["name"])
		require.Equal(t, 5.0, body["quantity"])

		resp, _ = doJSON(t, srv, http.MethodGet, "/products", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("patch updates only supplied fields and null quantity untracks", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 5,
		})

		resp, body := doJSON(t, srv, http.MethodPatch, "/products/"+id, token, map[string]any{
			"price": 12.5,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 12.5, body["price"])
		require.Equal(t, "Widget", body["name"])
		require.Equal(t, 5.0, body["quantity"])

		resp, body = doJSON(t, srv, http.MethodPatch, "/products/"+id, token, map[string]any{
			"quantity": nil,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Nil(t, body["quantity"])
	})

	t.Run("delete then get returns 404", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{"name": "Widget", "price": 1.0})

		resp, _ := doJSON(t, srv, http.MethodDelete, "/products/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, srv, http.MethodGet, "/products/"+id, token, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("another tenant's product is invisible", func(t *testing.T) {
		srv := newTestServer(t)
		acme := signup(t, srv, "admin@acme.test", "Acme")
		globex := signup(t, srv, "admin@globex.test", "Globex")

		id := createProduct(t, srv, acme, map[string]any{"name": "Widget", "price": 1.0})

		resp, _ := doJSON(t, srv, http.MethodGet, "/products/"+id, globex, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doJSON(t, srv, http.MethodDelete, "/products/"+id, globex, nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = doJSON(t, srv, http.MethodGet, "/products/"+id, acme, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("negative price returns 400", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		resp, _ := doJSON(t, srv, http.MethodPost, "/products", token, map[string]any{
			"name":  "Widget",
			"price": -1.0,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_Orders(t *testing.T) {
	t.Run("fulfilled order decrements stock", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 5,
		})

		resp, body := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
			"product_id": id,
			"quantity":   3,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, true, body["fulfilled"])
		require.Equal(t, 30.0, body["total_price"])

		resp, body = doJSON(t, srv, http.MethodGet, "/products/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 2.0, body["quantity"])
	})

	t.Run("insufficient stock leaves the order unfulfilled", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 2,
		})

		resp, body := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
			"product_id": id,
			"quantity":   3,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, false, body["fulfilled"])

		resp, body = doJSON(t, srv, http.MethodGet, "/products/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 2.0, body["quantity"])
	})

	t.Run("recompute fulfillment after restock", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 1,
		})

		resp, body := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
			"product_id": id,
			"quantity":   3,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.Equal(t, false, body["fulfilled"])
		orderID, _ := body["id"].(string)

		resp, _ = doJSON(t, srv, http.MethodPatch, "/products/"+id, token, map[string]any{
			"quantity": 10,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/orders/%s/fulfillment", orderID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, true, body["fulfilled"])

		resp, body = doJSON(t, srv, http.MethodGet, "/products/"+id, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 7.0, body["quantity"])
	})

	t.Run("ordering another tenant's product returns 404 without recording an order", func(t *testing.T) {
		srv := newTestServer(t)
		acme := signup(t, srv, "admin@acme.test", "Acme")
		globex := signup(t, srv, "admin@globex.test", "Globex")

		id := createProduct(t, srv, acme, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 5,
		})

		resp, _ := doJSON(t, srv, http.MethodPost, "/orders", globex, map[string]any{
			"product_id": id,
			"quantity":   1,
		})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		req, err := http.NewRequest(http.MethodGet, srv.URL+"/orders", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+globex)
		listResp, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer func() { _ = listResp.Body.Close() }()

		var orders []map[string]any
		require.NoError(t, json.NewDecoder(listResp.Body).Decode(&orders))
		require.Empty(t, orders)
	})

	t.Run("zero quantity returns 400", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{"name": "Widget", "price": 1.0, "quantity": 5})

		resp, _ := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
			"product_id": id,
			"quantity":   0,
		})
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAPI_Analytics(t *testing.T) {
	t.Run("sales trend fills days without orders", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{
			"name":     "Widget",
			"price":    10.0,
			"quantity": 100,
		})

		resp, _ := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
			"product_id": id,
			"quantity":   2,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		today := time.Now().UTC()
		start := today.AddDate(0, 0, -2).Format("2006-01-02")
		end := today.Format("2006-01-02")

		resp, body := doJSON(t, srv, http.MethodGet, "/analytics/sales-trend?start="+start+"&end="+end, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		labels, _ := body["labels"].([]any)
		data, _ := body["data"].([]any)
		require.Len(t, labels, 3)
		require.Len(t, data, 3)
		require.Equal(t, 0.0, data[0])
		require.Equal(t, 20.0, data[2])
	})

	t.Run("inventory excludes untracked products", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		createProduct(t, srv, token, map[string]any{"name": "Widget", "price": 1.0, "quantity": 5})
		createProduct(t, srv, token, map[string]any{"name": "Service", "price": 1.0})

		resp, body := doJSON(t, srv, http.MethodGet, "/analytics/inventory", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		labels, _ := body["labels"].([]any)
		require.Equal(t, []any{"Widget"}, labels)
	})

	t.Run("average sales over the range", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		id := createProduct(t, srv, token, map[string]any{"name": "Widget", "price": 10.0, "quantity": 100})

		for _, qty := range []int{1, 3} {
			resp, _ := doJSON(t, srv, http.MethodPost, "/orders", token, map[string]any{
				"product_id": id,
				"quantity":   qty,
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		today := time.Now().UTC()
		start := today.AddDate(0, 0, -1).Format("2006-01-02")
		end := today.AddDate(0, 0, 1).Format("2006-01-02")

		resp, body := doJSON(t, srv, http.MethodGet, "/analytics/average-sales?start="+start+"&end="+end, token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, 20.0, body["average"])
	})

	t.Run("missing range parameters return 400", func(t *testing.T) {
		srv := newTestServer(t)
		token := signup(t, srv, "admin@acme.test", "Acme")

		resp, _ := doJSON(t, srv, http.MethodGet, "/analytics/sales-trend", token, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, _ = doJSON(t, srv, http.MethodGet, "/analytics/average-sales?start=2026-03-03&end=2026-03-01", token, nil)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("analytics are tenant scoped", func(t *testing.T) {
		srv := newTestServer(t)
		acme := signup(t, srv, "admin@acme.test", "Acme")
		globex := signup(t, srv, "admin@globex.test", "Globex")

		createProduct(t, srv, acme, map[string]any{"name": "Widget", "price": 1.0, "quantity": 5})

		resp, body := doJSON(t, srv, http.MethodGet, "/analytics/inventory", globex, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		labels, _ := body["labels"].([]any)
		require.Empty(t, labels)
	})
}
