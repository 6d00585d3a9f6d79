package disbursements

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
	router := mainRouter.PathPrefix("/api/disbursements").Subrouter()
	router.HandleFunc("", handler.handleList).Methods("GET", "OPTIONS").Name("list-disbursements")
	router.HandleFunc("", handler.handleAdd).Methods("POST", "OPTIONS").Name("new-disbursement")
	router.HandleFunc("/count", handler.handleCount).Methods("GET", "OPTIONS").Name("count-disbursements")
	router.HandleFunc("/{id}", handler.handleGet).Methods("GET", "OPTIONS").Name("get-disbursement")
	router.HandleFunc("/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-disbursement")
	router.HandleFunc("/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("remove-disbursement")
	router.Use(handler.authMiddleware())
}

func (handler *Handler) authMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Headers", "*")
				w.WriteHeader(http.StatusOK)
				return
			}

			if handler.sessions.RequireSession(r) == nil {
				log.Tracef("[disbursements handler] unauthorized => %s", r.URL.Path)
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
		log.Errorf("list disbursements error: %s", err)
		pkg.WriteJSONError(w, "failed to get disbursements", http.StatusInternalServerError)
		return
	}
	total, err := handler.api.Count(r.Context())
	if err != nil {
		log.Errorf("count disbursements error: %s", err)
		pkg.WriteJSONError(w, "failed to get disbursements", http.StatusInternalServerError)
		return
	}

	if len(all) == 0 {
		all = []Disbursement{}
	}

	disbursementsJson, err := json.Marshal(all)
	if err != nil {
		log.Errorf("marshal disbursements error: %s", err)
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"disbursements": %s, "total": %d}`, disbursementsJson, total))
}

func (handler *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	total, err := handler.api.Count(r.Context())
	if err != nil {
		log.Errorf("count disbursements error: %s", err)
		pkg.WriteJSONError(w, "failed to count disbursements", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"count": %d}`, total))
}

func (handler *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var d Disbursement
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if d.LoanID == "" {
		pkg.WriteJSONError(w, "loanId is required", http.StatusBadRequest)
		return
	}
	if d.Name == "" {
		pkg.WriteJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	added, err := handler.api.Add(r.Context(), &d)
	if err != nil {
		log.Errorf("failed to add disbursement [%s]: %s", d.LoanID, err)
		pkg.WriteJSONError(w, "failed to add disbursement", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterDisbursementsSaved.Inc()
	log.Printf("new disbursement added: [%s] %s", added.LoanID, added.Name)

	addedJson, err := json.Marshal(added)
	if err != nil {
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	d, err := handler.api.Get(r.Context(), loanID)
	if errors.Is(err, ErrDisbursementNotFound) {
		pkg.WriteJSONError(w, "disbursement not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("get disbursement %s error: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to get disbursement", http.StatusInternalServerError)
		return
	}

	dJson, err := json.Marshal(d)
	if err != nil {
		pkg.WriteJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, dJson)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	var d Disbursement
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	d.LoanID = loanID

	if err := handler.api.Update(r.Context(), &d); err != nil {
		if errors.Is(err, ErrDisbursementNotFound) {
			pkg.WriteJSONError(w, "disbursement not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to update disbursement %s: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to update disbursement", http.StatusInternalServerError)
		return
	}

	log.Printf("disbursement updated: [%s] %s", d.LoanID, d.Name)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"ok": true, "loanId": %q}`, d.LoanID))
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["id"]

	if err := handler.api.Delete(r.Context(), loanID); err != nil {
		if errors.Is(err, ErrDisbursementNotFound) {
			pkg.WriteJSONError(w, "disbursement not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to delete disbursement %s: %s", loanID, err)
		pkg.WriteJSONError(w, "failed to delete disbursement", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"ok": true, "deleted": %q}`, loanID))
}
