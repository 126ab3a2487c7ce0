package main

import (
	"net/http"
	"os"

	"github.com/amilagm/wex/internal/application/service"
	"github.com/amilagm/wex/internal/infrastructure/api"
	"github.com/amilagm/wex/internal/infrastructure/config"
	"github.com/amilagm/wex/internal/infrastructure/db"
	"github.com/amilagm/wex/internal/infrastructure/handler"
	"github.com/amilagm/wex/internal/infrastructure/logger"
	"github.com/amilagm/wex/internal/infrastructure/metrics"
	"github.com/amilagm/wex/internal/infrastructure/middleware"
	"github.com/dgraph-io/badger/v3"
	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	log := logger.NewJSONLogger(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	logger.SetDefaultLogger(log)

	log.Info("Starting wex server", map[string]interface{}{"port": cfg.Port})

	if err := os.MkdirAll(cfg.DBPath, 0o755); err != nil {
		log.Fatal("Failed to create database directory", map[string]interface{}{"error": err.Error()})
	}

	badgerOpts := badger.DefaultOptions(cfg.DBPath)
	badgerOpts.Logger = nil

	badgerDB, err := badger.Open(badgerOpts)
	if err != nil {
		log.Fatal("Failed to open database", map[string]interface{}{"error": err.Error()})
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			log.Error("Error closing BadgerDB", map[string]interface{}{"error": err.Error()})
		}
	}()

	cardRepo := db.NewBadgerCardRepository(badgerDB)
	purchaseRepo := db.NewBadgerPurchaseRepository(badgerDB)

	treasury := api.NewTreasuryAPIClient(cfg.TreasuryAPIURL, nil, log)

	converter := service.NewConversionService(treasury, log)
	cardService := service.NewCardService(cardRepo, purchaseRepo, converter, log)
	purchaseService := service.NewPurchaseService(cardRepo, purchaseRepo, converter, log)

	cardHandler := handler.NewCardHandler(cardService, log)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService, log)

	collector := metrics.NewCollector()

	router := mux.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(log))
	router.Use(middleware.Metrics(collector))

	cardHandler.RegisterRoutes(router)
	purchaseHandler.RegisterRoutes(router)
	router.Handle("/metrics", collector.Handler()).Methods("GET")

	log.Info("Server listening", map[string]interface{}{"addr": ":" + cfg.Port})
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal("Server stopped", map[string]interface{}{"error": err.Error()})
	}
}
