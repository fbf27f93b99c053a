package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/validation"
)

func (h *Handler) handleListFollowUps(w http.ResponseWriter, r *http.Request) {
	records, err := h.followUps.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleUpcomingFollowUps(w http.ResponseWriter, r *http.Request) {
	records, err := h.followUps.ListUpcoming(r.Context())
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleFollowUpsByClient(w http.ResponseWriter, r *http.Request) {
	clientID := mux.Vars(r)["clientId"]
	records, err := h.followUps.ListByClient(r.Context(), clientID)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetFollowUp(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	record, ok, err := h.followUps.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !ok {
		notFound(w, "follow-up not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCreateFollowUp(w http.ResponseWriter, r *http.Request) {
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	ins, err := validation.FollowUpInsert(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, err := h.followUps.Create(r.Context(), ins)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("followup", "create")
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleUpdateFollowUp(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	raw, ok := decodeBody(w, r)
	if !ok {
		return
	}
	patch, err := validation.FollowUpPatch(raw)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	record, found, err := h.followUps.Update(r.Context(), id, patch)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !found {
		notFound(w, "follow-up not found")
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("followup", "update")
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *Handler) handleDeleteFollowUp(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	removed, err := h.followUps.Delete(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err)
		return
	}
	if !removed {
		notFound(w, "follow-up not found")
		return
	}
	if h.registry != nil {
		h.registry.RecordEntityWrite("followup", "delete")
	}
	w.WriteHeader(http.StatusNoContent)
}
