package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/alqor-ug/qlued-go/pkg/config"
	"github.com/alqor-ug/qlued-go/pkg/server/middleware"
	"github.com/alqor-ug/qlued-go/pkg/server/store"
	gormstore "github.com/alqor-ug/qlued-go/pkg/server/store/gorm"
)

type Server struct {
	Router    *mux.Router
	DB        *gorm.DB
	Tokens    store.TokensStore
	Providers store.ProvidersStore
	Auth      *middleware.TokenAuth
	Config    *config.QluedConfig
	Metrics   *Metrics
	Registry  *prometheus.Registry
	srv       *http.Server
}

func NewServer(db *gorm.DB, cfg *config.QluedConfig, host string, port string) *Server {
	tokens := gormstore.NewTokensStore(db)
	providers := gormstore.NewProvidersStore(db)
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	router := mux.NewRouter().UseEncodedPath()
	router.Use(metrics.Instrument)
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:    router,
		DB:        db,
		Tokens:    tokens,
		Providers: providers,
		Auth:      middleware.NewTokenAuth(tokens),
		Config:    cfg,
		Metrics:   metrics,
		Registry:  registry,
		srv:       srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
