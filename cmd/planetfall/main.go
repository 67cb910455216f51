// Package main is the entry point for the Planetfall terrain server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/planetfall/internal/config"
	"github.com/Faultbox/planetfall/internal/game"
	"github.com/Faultbox/planetfall/internal/logger"
	"github.com/Faultbox/planetfall/internal/relay"
	"github.com/Faultbox/planetfall/internal/terrain"
	"github.com/Faultbox/planetfall/internal/tilecache"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Planetfall Terrain Server ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Open the persistent tile cache if enabled. A fingerprint mismatch
	// (different seed or shape) wipes stale tiles on open.
	var cache terrain.MeshCache
	if cfg.Cache.Enabled {
		tc, err := tilecache.Open(cfg.Cache.Path, cacheFingerprint(cfg))
		if err != nil {
			logger.Error("failed to open tile cache", zap.Error(err))
			os.Exit(1)
		}
		defer tc.Close()
		cache = tc

		if n, err := tc.Count(); err == nil {
			logger.Info("tile cache open",
				zap.String("path", cfg.Cache.Path), zap.Int("tiles", n))
		}
	}

	// Create and run the simulation
	g, err := game.New(cfg, cache, logger.Log)
	if err != nil {
		logger.Error("failed to create game", zap.Error(err))
		os.Exit(1)
	}
	go g.Run()
	defer g.Stop()

	hub := relay.NewHub(g, cfg.Network.MaxClients, logger.Log)
	go hub.Run()
	defer hub.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveHome)
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		relay.ServeWS(hub, w, r)
	})

	srv := &http.Server{
		Addr:           cfg.Network.Addr,
		Handler:        mux,
		ReadTimeout:    cfg.Network.ReadTimeout,
		WriteTimeout:   cfg.Network.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", cfg.Network.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server closed normally")
}

// cacheFingerprint identifies the world the cached tiles were built for.
// Any parameter that changes mesh geometry must appear here.
func cacheFingerprint(cfg *config.Config) string {
	return fmt.Sprintf("seed=%d;radius=%g;height=%g;grid=%d;chunk=%g;lip=%g",
		cfg.Planet.Seed, cfg.Planet.Radius, cfg.Planet.HeightScale,
		cfg.Terrain.GridSize, cfg.Terrain.ChunkSize, cfg.Terrain.LipDepth)
}

const homePage = `<!DOCTYPE html>
<html>
<head><title>Planetfall</title></head>
<body>
<h1>Planetfall terrain server</h1>
<p>Connect a client over websocket at <code>/ws</code>.</p>
</body>
</html>
`

func serveHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, homePage)
}
