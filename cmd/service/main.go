package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/wheelsweb/backend/internal"
	"github.com/wheelsweb/backend/internal/config"
	"github.com/wheelsweb/backend/internal/logging"

	log "github.com/sirupsen/logrus"
)

const devFallbackSessionSecret = "dev-insecure-secret-change"

func main() {
	fmt.Println("starting ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sentryDSN := os.Getenv("SENTRY_DSN")
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    false,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sentryDSN,
		SentryServerName: "main-service",
	})

	log.Debugf("using port: %d", cfg.Port)
	log.Debugf("using server logs path: [%s]", cfg.LogsPath)

	sessionSecret := os.Getenv("WHEELSWEB_SESSION_SECRET")
	if sessionSecret == "" {
		log.Errorf("session secret not set, use WHEELSWEB_SESSION_SECRET env var to set it")
		if cfg.IsProduction() {
			log.Fatalf("refusing to run in production with the fallback session secret")
		}
		sessionSecret = devFallbackSessionSecret
	}

	defaultAdminUsername := os.Getenv("WHEELSWEB_DEFAULT_ADMIN_USERNAME")
	defaultAdminPassword := os.Getenv("WHEELSWEB_DEFAULT_ADMIN_PASSWORD")
	if defaultAdminUsername == "" || defaultAdminPassword == "" {
		log.Errorf("default admin credential not set, use WHEELSWEB_DEFAULT_ADMIN_USERNAME and WHEELSWEB_DEFAULT_ADMIN_PASSWORD")
		defaultAdminUsername = "admin"
		defaultAdminPassword = "admin123"
	}

	versionInfo, err := tryGetLastCommitHash()
	if err != nil {
		log.Tracef("failed to get last commit hash / version info: %s", err)
	} else {
		log.Tracef("running version: %s", versionInfo)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())

	server, err := internal.NewServer(
		ctx,
		internal.NewServerParams{
			Config:               cfg,
			SessionSecret:        sessionSecret,
			DefaultAdminUsername: defaultAdminUsername,
			DefaultAdminPassword: defaultAdminPassword,
			VersionInfo:          versionInfo,
		},
	)
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	cancel()

	server.GracefulShutdown()
}

// tryGetLastCommitHash will try to get the last commit hash
// assumes that the built main executable is in project root
func tryGetLastCommitHash() (string, error) {
	cmd := exec.Command("/usr/bin/git", "rev-parse", "HEAD")
	stdout, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(stdout)), nil
}
