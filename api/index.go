package handler

import (
	"net/http"

	"github.com/arnavshah/shiftdock-api/pkg/config"
	"github.com/arnavshah/shiftdock-api/pkg/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	cfg, err := config.Parse()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}

	app, err := server.New(cfg, cfg.Logger(), prometheus.NewRegistry())
	if err != nil {
		logrus.Fatalf("could not start: %v", err)
	}
	r = app.Engine
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
