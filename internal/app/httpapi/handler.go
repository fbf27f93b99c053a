// Package httpapi exposes the advisor CRM services over REST.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/advisorhq/advisor-crm/internal/app/metrics"
	"github.com/advisorhq/advisor-crm/internal/app/services/clients"
	"github.com/advisorhq/advisor-crm/internal/app/services/followups"
	"github.com/advisorhq/advisor-crm/internal/app/services/insights"
	"github.com/advisorhq/advisor-crm/internal/app/services/integrations"
	"github.com/advisorhq/advisor-crm/internal/app/storage"
	"github.com/advisorhq/advisor-crm/internal/app/validation"
	"github.com/advisorhq/advisor-crm/pkg/logger"
)

// maxBodyBytes caps request body reads.
const maxBodyBytes = 1 << 20

// Handler routes API requests to the services.
type Handler struct {
	clients      *clients.Service
	followUps    *followups.Service
	insights     *insights.Service
	integrations *integrations.Service
	registry     *metrics.Registry
	logger       *logger.Logger
}

// NewHandler creates a new API handler.
func NewHandler(
	clientSvc *clients.Service,
	followUpSvc *followups.Service,
	insightSvc *insights.Service,
	integrationSvc *integrations.Service,
	registry *metrics.Registry,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewDefault("httpapi")
	}
	return &Handler{
		clients:      clientSvc,
		followUps:    followUpSvc,
		insights:     insightSvc,
		integrations: integrationSvc,
		registry:     registry,
		logger:       log,
	}
}

// Register attaches all API routes to the router.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
	if h.registry != nil {
		r.Handle("/metricsz", h.registry.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/clients", h.handleListClients).Methods(http.MethodGet)
	api.HandleFunc("/clients", h.handleCreateClient).Methods(http.MethodPost)
	api.HandleFunc("/clients/{id}", h.handleGetClient).Methods(http.MethodGet)
	api.HandleFunc("/clients/{id}", h.handleUpdateClient).Methods(http.MethodPatch)
	api.HandleFunc("/clients/{id}", h.handleDeleteClient).Methods(http.MethodDelete)

	// Static segments are registered ahead of {id} so mux matches them first.
	api.HandleFunc("/follow-ups", h.handleListFollowUps).Methods(http.MethodGet)
	api.HandleFunc("/follow-ups/upcoming", h.handleUpcomingFollowUps).Methods(http.MethodGet)
	api.HandleFunc("/follow-ups/client/{clientId}", h.handleFollowUpsByClient).Methods(http.MethodGet)
	api.HandleFunc("/follow-ups", h.handleCreateFollowUp).Methods(http.MethodPost)
	api.HandleFunc("/follow-ups/{id}", h.handleGetFollowUp).Methods(http.MethodGet)
	api.HandleFunc("/follow-ups/{id}", h.handleUpdateFollowUp).Methods(http.MethodPatch)
	api.HandleFunc("/follow-ups/{id}", h.handleDeleteFollowUp).Methods(http.MethodDelete)

	api.HandleFunc("/metrics", h.handleLatestMetric).Methods(http.MethodGet)
	api.HandleFunc("/metrics", h.handleCreateMetric).Methods(http.MethodPost)
	api.HandleFunc("/metrics/range", h.handleMetricsByRange).Methods(http.MethodGet)

	api.HandleFunc("/integrations", h.handleListIntegrations).Methods(http.MethodGet)
	api.HandleFunc("/integrations", h.handleCreateIntegration).Methods(http.MethodPost)
	api.HandleFunc("/integrations/{id}", h.handleGetIntegration).Methods(http.MethodGet)
	api.HandleFunc("/integrations/{id}", h.handleUpdateIntegration).Methods(http.MethodPatch)

	api.HandleFunc("/export/{type}", h.handleExport).Methods(http.MethodGet)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Response helpers
// =============================================================================

type errorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, message)
}

// writeDomainError maps validation and store errors to status codes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  verr.Error(),
			Fields: verr.Fields,
		})
		return
	}
	if errors.Is(err, storage.ErrDuplicateEmail) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "validation failed",
			Fields: []validation.FieldError{{
				Field:   "email",
				Reason:  validation.ReasonDuplicate,
				Message: "email already in use",
			}},
		})
		return
	}
	h.logger.WithError(err).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody reads the request body as a generic JSON object so the
// validators can tell a missing key from a null or mistyped one.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return raw, true
}
