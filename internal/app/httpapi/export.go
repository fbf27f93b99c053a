package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	exportType := mux.Vars(r)["type"]

	var (
		doc  string
		rows int
		err  error
	)
	switch exportType {
	case "clients":
		records, lerr := h.clients.List(r.Context())
		if lerr != nil {
			h.writeDomainError(w, lerr)
			return
		}
		rows = len(records)
		doc, err = encodeCSV(records)
	case "follow-ups":
		records, lerr := h.followUps.List(r.Context())
		if lerr != nil {
			h.writeDomainError(w, lerr)
			return
		}
		rows = len(records)
		doc, err = encodeCSV(records)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export type %q", exportType))
		return
	}
	if err != nil {
		h.writeDomainError(w, err)
		return
	}

	if h.registry != nil {
		h.registry.RecordExport(exportType, rows)
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", exportType))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}
