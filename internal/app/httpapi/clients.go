package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/validation"
)

func (h *Handler) handleListClients(w http.ResponseWriter, r *http.Request) {
	records, err := h.clients.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, ok, err := h.clients.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !ok {
		notFound(w, "client not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	ins, err := validation.ClientInsert(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, err := h.clients.Create(r.Context(), ins)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("client", "create")
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	patch, err := validation.ClientPatch(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, found, err := h.clients.Update(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !found {
		notFound(w, "client not found")
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("client", "update")
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	removed, err := h.clients.Delete(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !removed {
		notFound(w, "client not found")
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("client", "delete")
	}
	w.WriteHeader(http.StatusNoContent)
}
