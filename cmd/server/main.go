package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tne-registro/tne-backend/internal/config"
	"github.com/tne-registro/tne-backend/internal/handlers"
	"github.com/tne-registro/tne-backend/internal/storage"
)

func main() {
	cfg := config.Load()
	if cfg.Bucket == "" {
		log.Fatal("GCS_BUCKET no configurado")
	}

	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.NewGCS(context.Background(), cfg.Bucket)
	if err != nil {
		log.Fatal(err)
	}

	h := handlers.New(store, cfg, loc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))
	h.Register(r)

	addr := cfg.Host + ":" + cfg.Port
	slog.Info("server listening", "addr", addr, "bucket", cfg.Bucket)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
