package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wheelsweb/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// CredentialsHandler is the admin-only credential rotation API.
type CredentialsHandler struct {
	store    Store
	sessions SessionChecker
}

func NewCredentialsHandler(store Store, sessions SessionChecker) *CredentialsHandler {
	return &CredentialsHandler{
		store:    store,
		sessions: sessions,
	}
}

func (handler *CredentialsHandler) SetupRoutes(mainRouter *mux.Router) {
	adminRouter := mainRouter.PathPrefix("/api/admin").Subrouter()
	adminRouter.HandleFunc("/credentials", handler.handleList).Methods("GET", "OPTIONS").Name("list-credentials")
	adminRouter.HandleFunc("/credentials", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-credentials")
}

func (handler *CredentialsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if session := handler.sessions.RequireSession(r, RoleAdmin); session == nil {
		pkg.WriteJSONError(w, "forbidden", http.StatusForbidden)
		return
	}

	credentials, err := handler.store.GetAll(r.Context())
	if err != nil {
		log.Errorf("list credentials: %s", err)
		pkg.WriteJSONError(w, "failed to list credentials", http.StatusInternalServerError)
		return
	}

	resp, err := json.Marshal(struct {
		Credentials []Credential `json:"credentials"`
	}{Credentials: credentials})
	if err != nil {
		log.Errorf("list credentials, marshal response: %s", err)
		pkg.WriteJSONError(w, "failed to list credentials", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *CredentialsHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if session := handler.sessions.RequireSession(r, RoleAdmin); session == nil {
		pkg.WriteJSONError(w, "forbidden", http.StatusForbidden)
		return
	}

	type updateRequest struct {
		Role     string  `json:"role"`
		Username *string `json:"username"`
		Password *string `json:"password"`
	}
	var updateReq updateRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Errorf("update credentials, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	role, err := ParseRole(updateReq.Role)
	if err != nil {
		pkg.WriteJSONError(w, "invalid role", http.StatusBadRequest)
		return
	}
	if updateReq.Username == nil && updateReq.Password == nil {
		pkg.WriteJSONError(w, "provide username or password to update", http.StatusBadRequest)
		return
	}

	patch := CredentialPatch{Username: updateReq.Username}
	if updateReq.Password != nil {
		passwordHash, err := pkg.HashPassword(*updateReq.Password)
		if err != nil {
			log.Errorf("update credentials, hash password: %s", err)
			pkg.WriteJSONError(w, "failed to update credentials", http.StatusInternalServerError)
			return
		}
		patch.Password = &passwordHash
	}

	if err := handler.store.Update(r.Context(), role, patch); err != nil {
		switch {
		case errors.Is(err, ErrEmptyPatch):
			pkg.WriteJSONError(w, "provide username or password to update", http.StatusBadRequest)
		case errors.Is(err, ErrCredentialNotFound):
			pkg.WriteJSONError(w, "provide both username and password to create the credential", http.StatusBadRequest)
		default:
			log.Errorf("update credentials for role [%s]: %s", role, err)
			pkg.WriteJSONError(w, "failed to update credentials", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("credentials updated for role: %s", role)
	pkg.WriteJSONResponseOK(w, `{"ok":true}`)
}
