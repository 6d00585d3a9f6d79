package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wheelsweb/backend/internal/auth"
	"github.com/wheelsweb/backend/internal/config"
	"github.com/wheelsweb/backend/internal/db"
	"github.com/wheelsweb/backend/internal/disbursements"
	"github.com/wheelsweb/backend/internal/leads"
	"github.com/wheelsweb/backend/internal/middleware"
	"github.com/wheelsweb/backend/internal/telemetry/metrics"
	"github.com/wheelsweb/backend/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	credStore   auth.Store
	authService *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config               *config.Config
	SessionSecret        string
	DefaultAdminUsername string
	DefaultAdminPassword string
	VersionInfo          string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost: params.Config.PostgresHost,
		DBPort: params.Config.PostgresPort,
		DBName: params.Config.PostgresDBName,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("wheelsweb", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	credStore := auth.NewRepo(dbPool)
	authService := auth.NewService(
		credStore,
		auth.NewCodec([]byte(params.SessionSecret)),
		auth.NewCookies(params.Config.IsProduction()),
		params.Config.SessionTTL(),
	)

	if err := authService.SeedDefaultAdmin(
		ctx,
		params.DefaultAdminUsername,
		params.DefaultAdminPassword,
	); err != nil {
		log.Warnf("failed to seed default admin credential: %s", err)
	}

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         params.Config,
		dbPool:         dbPool,
		credStore:      credStore,
		authService:    authService,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()

	authHandler := auth.NewHandler(s.authService, s.metricsManager)
	authHandler.SetupRoutes(r)

	credentialsHandler := auth.NewCredentialsHandler(s.credStore, s.authService)
	credentialsHandler.SetupRoutes(r)

	leadsHandler := leads.NewHandler(
		leads.NewRepo(s.dbPool),
		s.authService,
		s.metricsManager,
	)
	leadsHandler.SetupRoutes(r)

	disbursementsHandler := disbursements.NewHandler(
		disbursements.NewRepo(s.dbPool),
		s.authService,
		s.metricsManager,
	)
	disbursementsHandler.SetupRoutes(r)

	r.HandleFunc("/api/health/db", s.handleDBHealth).Methods("GET", "OPTIONS").Name("db-health")
	r.HandleFunc("/api/version", func(w http.ResponseWriter, _ *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// page paths fall through to the frontend bundle, behind the session gate
	r.PathPrefix("/").Handler(newSpaHandler(s.config.FrontendDistPath))

	gate := middleware.NewGate(s.authService, s.metricsManager)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(gate.Check())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

type dbHealthReport struct {
	Ok            bool     `json:"ok"`
	Select1       bool     `json:"select1"`
	TablesPresent []string `json:"tables_present"`
	TablesMissing []string `json:"tables_missing"`
	Hint          string   `json:"hint,omitempty"`
}

func (s *Server) handleDBHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report := dbHealthReport{}

	var one int
	if err := s.dbPool.QueryRow(ctx, `SELECT 1;`).Scan(&one); err != nil {
		log.Errorf("db health, select 1: %s", err)
		report.Hint = "database unreachable, check postgres connection settings"
		writeDBHealth(w, report, http.StatusServiceUnavailable)
		return
	}
	report.Select1 = true

	expectedTables := []string{"credentials", "leads", "disbursement"}
	rows, err := s.dbPool.Query(
		ctx,
		`SELECT table_name FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = ANY($1);`,
		expectedTables,
	)
	if err != nil {
		log.Errorf("db health, tables check: %s", err)
		report.Hint = "failed to inspect schema"
		writeDBHealth(w, report, http.StatusServiceUnavailable)
		return
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			log.Errorf("db health, tables scan: %s", err)
			report.Hint = "failed to inspect schema"
			writeDBHealth(w, report, http.StatusServiceUnavailable)
			return
		}
		present[tableName] = true
	}

	for _, tableName := range expectedTables {
		if present[tableName] {
			report.TablesPresent = append(report.TablesPresent, tableName)
		} else {
			report.TablesMissing = append(report.TablesMissing, tableName)
		}
	}

	report.Ok = len(report.TablesMissing) == 0
	status := http.StatusOK
	if !report.Ok {
		report.Hint = "run scripts/init.sql to create the missing tables"
		status = http.StatusServiceUnavailable
	}
	writeDBHealth(w, report, status)
}

func writeDBHealth(w http.ResponseWriter, report dbHealthReport, statusCode int) {
	reportJson, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, statusCode)
}

// spaHandler serves the built frontend bundle. Unknown page paths get
// index.html so client side routing can take over.
type spaHandler struct {
	distPath string
}

func newSpaHandler(distPath string) *spaHandler {
	return &spaHandler{distPath: distPath}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.distPath == "" {
		http.NotFound(w, r)
		return
	}

	requested := filepath.Join(h.distPath, filepath.Clean("/"+r.URL.Path))
	if !strings.HasPrefix(requested, filepath.Clean(h.distPath)) {
		http.NotFound(w, r)
		return
	}

	if info, err := os.Stat(requested); err == nil && !info.IsDir() {
		http.ServeFile(w, r, requested)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.distPath, "index.html"))
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
