// Package main provides the stats server: it watches the savegame
// directory, reloads the ledger snapshot when the game writes a new save,
// and serves aggregated economy views over HTTP plus reload notifications
// over WebSocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"x4-ledger/internal/domain"
	"x4-ledger/internal/push"
	"x4-ledger/internal/reporting"
	"x4-ledger/internal/stats"
	"x4-ledger/internal/storage"
	chstore "x4-ledger/internal/storage/clickhouse"
	"x4-ledger/internal/storage/memory"
	"x4-ledger/internal/storage/migrations"
	pgstore "x4-ledger/internal/storage/postgres"
)

// Server holds the serving components.
type Server struct {
	service  *stats.Service
	hub      *push.Hub
	reporter *reporting.Generator
	logger   *log.Logger
	started  time.Time
}

func main() {
	// Load .env file if present
	loadEnvFile()

	saveDir := flag.String("save-dir", os.Getenv("X4_SAVE_DIR"), "Directory the game writes savegames to")
	stagingPath := flag.String("staging-path", envOr("X4_STAGING_PATH", "saves/savegame_wrk.gz"), "Working copy location for the savegame")
	listenAddr := flag.String("listen-addr", envOr("X4_LISTEN_ADDR", ":2992"), "HTTP listen address")
	pollInterval := flag.Duration("poll-interval", 10*time.Second, "Savegame directory poll interval")
	ecoOrders := flag.String("eco-orders", "", "Comma-separated default orders that mark traders and miners (empty for built-in set)")
	mutationTypes := flag.String("mutation-types", "", "Comma-separated money log types turned into ledger rows (empty for built-in set)")
	idleHours := flag.Int("idle-hours", 1, "Lookback window for the report's idle asset section")
	archiveKind := flag.String("archive", envOr("X4_ARCHIVE", "none"), "Ledger archive backend: postgres, clickhouse, memory or none")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *saveDir == "" {
		logger.Fatal("--save-dir is required (or set X4_SAVE_DIR)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	archive, cleanup, err := createArchive(ctx, *archiveKind, *postgresDSN, *clickhouseDSN)
	if err != nil {
		logger.Fatalf("Failed to create archive: %v", err)
	}
	defer cleanup()

	hub := push.NewHub(logger)
	go hub.Run()

	ecoOrderList := splitList(*ecoOrders)

	service := stats.NewService(stats.Options{
		SaveDir:       *saveDir,
		StagingPath:   *stagingPath,
		EcoOrders:     ecoOrderList,
		MutationTypes: splitList(*mutationTypes),
		Archive:       archive,
		Logger:        logger,
		OnReload: func(snap *stats.Snapshot) {
			hub.Broadcast(push.ReloadMessage{
				SnapshotID:      snap.SnapshotID,
				GameTimeSeconds: snap.GameTime,
				LedgerRows:      len(snap.Rows),
			})
		},
	})

	// The first load must succeed, a server without a snapshot has
	// nothing to serve.
	if _, err := service.ReloadIfNew(ctx); err != nil {
		logger.Fatalf("Initial savegame load failed: %v", err)
	}

	reportOrders := domain.DefaultEcoOrders()
	if ecoOrderList != nil {
		reportOrders = ecoOrderList
	}

	server := &Server{
		service:  service,
		hub:      hub,
		reporter: reporting.NewGenerator(*idleHours, reportOrders),
		logger:   logger,
		started:  time.Now(),
	}

	httpServer := &http.Server{
		Addr:    *listenAddr,
		Handler: server.routes(),
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	go server.watchSaves(ctx, *pollInterval)

	logger.Printf("Starting HTTP server on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// watchSaves polls the savegame directory so new saves load even when no
// request comes in.
func (s *Server) watchSaves(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.service.ReloadIfNew(ctx); err != nil {
				s.logger.Printf("Reload failed, keeping previous snapshot: %v", err)
			}
		}
	}
}

// createArchive builds the configured ledger archive. The returned cleanup
// closes the underlying connections.
func createArchive(ctx context.Context, kind, postgresDSN, clickhouseDSN string) (storage.LedgerArchive, func(), error) {
	switch kind {
	case "none", "":
		return nil, func() {}, nil

	case "memory":
		return memory.NewLedgerArchive(), func() {}, nil

	case "postgres":
		if postgresDSN == "" {
			return nil, nil, fmt.Errorf("--postgres-dsn is required for the postgres archive")
		}
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		archive := pgstore.NewLedgerArchive(pool)
		return archive, func() { archive.Close() }, nil

	case "clickhouse":
		if clickhouseDSN == "" {
			return nil, nil, fmt.Errorf("--clickhouse-dsn is required for the clickhouse archive")
		}
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return nil, nil, err
		}
		archive := chstore.NewLedgerArchive(conn)
		return archive, func() { archive.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown archive backend %q", kind)
	}
}

// splitList parses a comma-separated flag value. Empty means nil so the
// built-in defaults apply.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
