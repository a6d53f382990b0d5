package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/splitbill/billsplitter/internal/api"
	"github.com/splitbill/billsplitter/internal/auth"
	"github.com/splitbill/billsplitter/internal/config"
	"github.com/splitbill/billsplitter/internal/extractor"
	"github.com/splitbill/billsplitter/internal/middleware"
	"github.com/splitbill/billsplitter/internal/observability/metrics"
	"github.com/splitbill/billsplitter/internal/service"
	"github.com/splitbill/billsplitter/internal/storage"
	"github.com/splitbill/billsplitter/internal/storage/postgres"
	"github.com/splitbill/billsplitter/internal/storage/sqlite"
	"github.com/splitbill/billsplitter/internal/textextract"
	"github.com/splitbill/billsplitter/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// openStore selects the backend from config: SQLite by default, Postgres when
// a DSN is configured. The returned *sql.DB feeds the scrape-time gauges.
func openStore(cfg *config.Config) (storage.Store, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		store, err := postgres.New(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store.DB(), nil
	default:
		store, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.DB(), nil
	}
}

func main() {
	logging.Setup()

	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, db, err := openStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver)
	metrics.RegisterDBGauges(db)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager)

	text := textextract.NewDispatcher(
		textextract.NewPDF(),
		textextract.NewTesseract(cfg.OCR.Binary, cfg.OCR.Languages),
	)
	resolver := service.NewPartyResolver(store, cfg.Parties)
	receiptSvc := service.NewReceiptService(store, text, extractor.New(cfg.Extractor), resolver)
	ledgerSvc := service.NewLedgerService(store, resolver)

	mux := http.NewServeMux()
	api.NewServer(authSvc, receiptSvc, ledgerSvc).Routes(mux, jwtManager)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := middleware.Logging(middleware.CORS(middleware.Metrics(mux)))

	// h2c keeps HTTP/2 available without TLS termination in front.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr)
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
