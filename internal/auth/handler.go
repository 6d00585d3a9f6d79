package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wheelsweb/backend/internal/telemetry/metrics"
	"github.com/wheelsweb/backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	authRouter := mainRouter.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("whoami")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == pkg.ContentType.JSON {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.WriteJSONError(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.WriteJSONError(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
			Role:     r.Form.Get("role"),
		}
	}

	if loginReq.Username == "" {
		pkg.WriteJSONError(w, "username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		pkg.WriteJSONError(w, "password empty", http.StatusBadRequest)
		return
	}
	role, err := ParseRole(loginReq.Role)
	if err != nil {
		pkg.WriteJSONError(w, "invalid role", http.StatusBadRequest)
		return
	}

	token, err := handler.service.Login(r.Context(), loginReq.Username, loginReq.Password, role)
	if err != nil {
		handler.metrics.CounterLoginFailed.Inc()
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			pkg.WriteJSONError(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed: %s", err)
		pkg.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterLoginSuccess.Inc()
	handler.service.Cookies().Attach(w, token, handler.service.TTL())

	resp, err := json.Marshal(struct {
		OK   bool `json:"ok"`
		Role Role `json:"role"`
	}{OK: true, Role: role})
	if err != nil {
		log.Errorf("login, marshal response: %s", err)
		pkg.WriteJSONError(w, "login failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

// logout is idempotent, clearing an absent session is not an error
func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	handler.service.Cookies().Clear(w)
	pkg.WriteJSONResponseOK(w, `{"ok":true}`)
}

// handleMe is advisory only, for the client to skip the login form. The
// gate stays authoritative.
func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	w.Header().Set("Cache-Control", "no-store")

	session := handler.service.SessionFromRequest(r)
	if session == nil {
		pkg.WriteJSONResponseOK(w, `{"authenticated":false}`)
		return
	}

	resp, err := json.Marshal(struct {
		Authenticated bool   `json:"authenticated"`
		Username      string `json:"username"`
		Role          Role   `json:"role"`
	}{Authenticated: true, Username: session.Subject, Role: session.Role})
	if err != nil {
		log.Errorf("whoami, marshal response: %s", err)
		pkg.WriteJSONError(w, "whoami failed", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}
