package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/foodreview-demo/admin/internal/backend"
	"github.com/foodreview-demo/admin/internal/cache"
	"github.com/foodreview-demo/admin/internal/config"
	"github.com/foodreview-demo/admin/internal/db"
	"github.com/foodreview-demo/admin/internal/session"
	"github.com/foodreview-demo/admin/internal/storage"
	"github.com/foodreview-demo/admin/internal/util"
	"github.com/foodreview-demo/admin/internal/version"
	"github.com/foodreview-demo/admin/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	stateDB, err := db.Open(cfg.StateDBDriver, cfg.StateDBPath, cfg.StateDBDSN,
		cfg.StateDBMaxOpen, cfg.StateDBMaxIdle, cfg.StateDBMaxLife)
	if err != nil {
		log.Fatalf("open state db: %v", err)
	}
	defer stateDB.Close()
	if err := db.ApplyMigrationFile(stateDB, "migrations/001_init.sql"); err != nil {
		log.Fatalf("migration: %v", err)
	}

	st := storage.New(stateDB, util.Derive32ByteKey(cfg.StateEncryptKey), cfg.TokenStorageKey, cfg.StateDBDriver)

	// The session store reacts to any 401 the client sees, so the client's
	// failure hook is bound after the store exists.
	var sess *session.Store
	client := backend.NewClient(cfg.BackendBaseURL, cfg.BackendTimeout(), st, func() {
		if sess != nil {
			sess.Invalidate()
		}
	})
	sess = session.New(client, st)

	// Resolve the stored token before serving; pages never see the loading
	// state, only /readyz does.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.BackendTimeout())
	if err := sess.CheckAuth(ctx); err != nil {
		log.Printf("startup auth check failed, serving unauthenticated: %v", err)
	}
	cancel()

	c := cache.New(cfg.CacheTTL())
	h := web.NewHandler(cfg, client, sess, c, stateDB)

	hsrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           h.Router(),
		ReadTimeout:       time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTPReadHeaderTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:       time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	log.Printf("admin console %s listening on %s backend=%s", version.Current().Version, cfg.ListenAddr, cfg.BackendBaseURL)
	if err := hsrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
