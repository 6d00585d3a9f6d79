package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/wheelsweb/backend/internal/auth"
	"github.com/wheelsweb/backend/internal/telemetry/metrics"
	"github.com/wheelsweb/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

type Handler struct {
	api      Api
	sessions auth.SessionChecker
	metrics  *metrics.Manager
}

func NewHandler(
	api Api,
	sessions auth.SessionChecker,
	metrics *metrics.Manager,
) *Handler {
	return &Handler{
		api:      api,
		sessions: sessions,
		metrics:  metrics,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	router := mainRouter.PathPrefix("/api/leads").Subrouter()
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("list-leads")
	router.HandleFunc("", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-lead")
	router.HandleFunc("/count", handler.handleCount).Methods("GET", "OPTIONS").Name("count-leads")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("get-lead")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-lead")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("remove-lead")
	router.Use(handler.authMiddleware())
}

// authMiddleware rejects anonymous requests. Any authenticated role can
// read and write lead records.
func (handler *Handler) authMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Headers", "*")
				w.WriteHeader(http.StatusOK)
				return
			}

			if handler.sessions.RequireSession(r) == nil {
				log.Tracef("[leads handler] unauthorized => %s", r.URL.Path)
				pkg.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func listParams(r *http.Request) (offset, limit int) {
	offset, limit = 0, defaultListLimit
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed > 0 {
			offset = parsed
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return offset, limit
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	offset, limit := listParams(r)

	all, err := handler.api.List(r.Context(), offset, limit)
	if err != nil {
		log.Errorf("list leads error: %s", err)
		pkg.WriteJSONError(w, "failed to get leads", http.StatusInternalServerError)
		return
	}
	total, err := handler.api.Count(r.Context())
	if err != nil {
		log.Errorf("count leads error: %s", err)
		pkg.WriteJSONError(w, "failed to get leads", http.StatusInternalServerError)
		return
	}

	if len(all) == 0 {
		all = []Lead{}
	}

	leadsJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("marshal leads error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"leads": %s, "total": %d}`, leadsJson, total))
}

func (handler *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	total, err := handler.api.Count(r.Context())
	if err != nil {
		log.Errorf("count leads error: %s", err)
		pkg.WriteJSONError(w, "failed to count leads", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"count": %d}`, total))
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var lead Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if lead.Name == "" {
		pkg.WriteJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	added, err := handler.api.Add(r.Context(), &lead)
	if err != nil {
		log.Errorf("failed to add lead [%s]: %s", lead.Name, err)
		pkg.WriteJSONError(w, "failed to add lead", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLeadsSaved.Inc()
	log.Printf("new lead added: [%s] %s", added.LoanID, added.Name)

	addedJson, err := json.Marshal(added)
	if err != nil {
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	lead, err := handler.api.Get(r.Context(), loanID)
	if errors.Is(err, ErrLeadNotFound) {
		pkg.WriteJSONError(w, "lead not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get lead %s error: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to get lead", http.StatusInternalServerError)
		return
	}

	leadJson, err := json.Marshal(lead)
	if err != nil {
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, leadJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	var lead Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	lead.LoanID = loanID

	if err := handler.api.Update(r.Context(), &lead); err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			pkg.WriteJSONError(w, "lead not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update lead %s: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to update lead", http.StatusInternalServerError)
		return
	}

	log.Printf("lead updated: [%s] %s", lead.LoanID, lead.Name)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"ok": true, "loanId": %q}`, lead.LoanID))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	if err := handler.api.Delete(r.Context(), loanID); err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			pkg.WriteJSONError(w, "lead not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete lead %s: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to delete lead", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"ok": true, "deleted": %q}`, loanID))
}
