package main

import (
	"io"
	"log"
	"net/http"
	"os"

	"github.com/edgeform/edgeform/internal/config"
	"github.com/edgeform/edgeform/internal/gelf"
	"github.com/edgeform/edgeform/internal/handler"
	"github.com/edgeform/edgeform/internal/kv"
	"github.com/edgeform/edgeform/internal/repository"
	"github.com/edgeform/edgeform/internal/router"
	"github.com/edgeform/edgeform/internal/service"
)

func main() {
	cfg := config.Load()

	// GELF UDP logging
	if cfg.GelfAddr != "" {
		gelfWriter, err := gelf.New(cfg.GelfAddr, "edgeform")
		if err != nil {
			log.Printf("Warning: GELF init failed: %v", err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stderr, gelfWriter))
			log.Printf("GELF logging: enabled (%s)", cfg.GelfAddr)
		}
	}

	// Connect to edgekv
	pool, err := kv.NewPool(cfg.EdgeKVHost, cfg.EdgeKVPort, cfg.Namespace, cfg.PoolSize)
	if err != nil {
		log.Fatalf("Failed to connect to edgekv: %v", err)
	}
	defer pool.Close()
	log.Printf("Connected to edgekv at %s:%d ns=%s (pool size: %d)", cfg.EdgeKVHost, cfg.EdgeKVPort, cfg.Namespace, cfg.PoolSize)

	// Repositories
	subRepo := repository.NewSubmissionRepo(pool)
	indexRepo := repository.NewIndexRepo(pool)

	// Services
	authSvc := service.NewAuthService(pool)
	subSvc := service.NewSubmissionService(subRepo, indexRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	subH := handler.NewSubmissionHandler(subSvc)

	// Router
	r := router.New(authSvc.JWTSecret, authH, subH)

	log.Printf("edgeform server starting on %s", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
