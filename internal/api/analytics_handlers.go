package api

import (
	"net/http"
	"time"

	"github.com/stockroomhq/stockroom/internal/auth"
)

type salesTrendResponse struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type inventoryResponse struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type averageSalesResponse struct {
	Average float64 `json:"average"`
}

// parseRange reads start/end query parameters as RFC 3339 timestamps or
// plain dates (2006-01-02). A date-only end covers the entire day, so
// start=end=today includes orders placed later today.
func parseRange(r *http.Request) (start, end time.Time, ok bool) {
	start, _, ok = parseTimeParam(r.URL.Query().Get("start"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	var dateOnly bool
	end, dateOnly, ok = parseTimeParam(r.URL.Query().Get("end"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end, true
}

func parseTimeParam(value string) (t time.Time, dateOnly, ok bool) {
	if value == "" {
		return time.Time{}, false, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, false, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

func (h *Handler) handleSalesTrend(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	start, end, ok := parseRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start and end must be RFC 3339 timestamps or YYYY-MM-DD dates")
		return
	}

	series, err := h.analytics.SalesTrend(r.Context(), identity.OrgID, start, end)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	resp := salesTrendResponse{
		Labels: make([]string, 0, len(series)),
		Data:   make([]float64, 0, len(series)),
	}
	for _, point := range series {
		resp.Labels = append(resp.Labels, point.Day.Format("2006-01-02"))
		resp.Data = append(resp.Data, point.Total)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleInventorySnapshot(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	levels, err := h.analytics.InventorySnapshot(r.Context(), identity.OrgID)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	resp := inventoryResponse{
		Labels: make([]string, 0, len(levels)),
		Data:   make([]int64, 0, len(levels)),
	}
	for _, level := range levels {
		resp.Labels = append(resp.Labels, level.Name)
		resp.Data = append(resp.Data, level.Quantity)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAverageSales(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	start, end, ok := parseRange(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "start and end must be RFC 3339 timestamps or YYYY-MM-DD dates")
		return
	}

	average, err := h.analytics.AverageSales(r.Context(), identity.OrgID, start, end)
	if err != nil {
		writeServiceError(r, w, err)
		return
	}

	writeJSON(w, http.StatusOK, averageSalesResponse{Average: average})
}
