package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/validation"
)

func (h *Handler) handleListIntegrations(w http.ResponseWriter, r *http.Request) {
	records, err := h.integrations.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetIntegration(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, ok, err := h.integrations.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !ok {
		notFound(w, "integration not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCreateIntegration(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	ins, err := validation.IntegrationInsert(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, err := h.integrations.Create(r.Context(), ins)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("integration", "create")
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdateIntegration(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	patch, err := validation.IntegrationPatch(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, found, err := h.integrations.Update(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !found {
		notFound(w, "integration not found")
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("integration", "update")
	}
	writeJSON(w, http.StatusOK, record)
}
