package httpapi

import (
	"net/http"
	"time"

	"github.com/advisorhq/advisor-crm/internal/app/validation"
)

func (h *Handler) handleLatestMetric(w http.ResponseWriter, r *http.Request) {
	record, ok, err := h.insights.Latest(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !ok {
		notFound(w, "no metrics recorded")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleMetricsByRange(w http.ResponseWriter, r *http.Request) {
	startRaw := r.URL.Query().Get("startDate")
	endRaw := r.URL.Query().Get("endDate")
	if startRaw == "" || endRaw == "" {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}
	start, err := parseDateParam(startRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be an RFC 3339 or YYYY-MM-DD date")
		return
	}
	end, err := parseDateParam(endRaw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "endDate must be an RFC 3339 or YYYY-MM-DD date")
		return
	}

	records, err := h.insights.ByDateRange(r.Context(), start, end)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleCreateMetric(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	ins, err := validation.MetricInsert(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, err := h.insights.Record(r.Context(), ins)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("metric", "create")
	}
	writeJSON(w, http.StatusCreated, record)
}

func parseDateParam(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
