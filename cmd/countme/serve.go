package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"countme-core/internal/config"
	"countme-core/internal/handler"
	"countme-core/internal/middleware"
	"countme-core/internal/provider/openfoodfacts"
	"countme-core/internal/service"
	"countme-core/internal/store"
	"countme-core/internal/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local API server with background sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, engine, err := bootstrap(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	wsManager := websocket.NewManager(
		cfg.WebSocket.MaxConnPerUser,
		cfg.WebSocket.WriteWait,
		cfg.WebSocket.PongWait,
		cfg.WebSocket.PingPeriod,
	)
	go wsManager.Run()

	// Committed local mutations feed the change stream.
	st.OnChange(func(c store.Change) {
		msg, err := websocket.NewMessage(websocket.TypeChange, websocket.ChangePayload{
			Entity: string(c.Entity),
			ID:     c.ID,
			Op:     string(c.Op),
		})
		if err != nil {
			log.Printf("encode change message: %v", err)
			return
		}
		wsManager.BroadcastToUser(c.UserID, msg, "")
	})

	offClient := &openfoodfacts.Client{BaseURL: cfg.Search.BaseURL}

	trackingService := service.NewTrackingService(st, engine)
	mealService := service.NewMealService(st, engine, trackingService)
	searchService := service.NewSearchService(offClient, cfg.Search.Debounce, cfg.Search.Limit)
	deviceService := service.NewDeviceService(st)

	trackingHandler := handler.NewTrackingHandler(trackingService)
	mealHandler := handler.NewMealHandler(mealService)
	searchHandler := handler.NewSearchHandler(searchService, offClient)
	syncHandler := handler.NewSyncHandler(engine)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	energyHandler := handler.NewEnergyHandler()
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.JWT.Secret)

	r := mux.NewRouter()
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORS))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	api.HandleFunc("/logs", trackingHandler.GetDailyLog).Methods("GET", "OPTIONS")
	api.HandleFunc("/logs/goal", trackingHandler.SetGoal).Methods("PUT", "OPTIONS")
	api.HandleFunc("/logs/foods", trackingHandler.LogFood).Methods("POST", "OPTIONS")
	api.HandleFunc("/logs/exercises", trackingHandler.LogExercise).Methods("POST", "OPTIONS")
	api.HandleFunc("/foods/{id}", trackingHandler.UpdateFood).Methods("PUT", "OPTIONS")
	api.HandleFunc("/foods/{id}", trackingHandler.DeleteFood).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/exercises/{id}", trackingHandler.DeleteExercise).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/meals", mealHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/meals", mealHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/meals/{id}", mealHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/meals/{id}", mealHandler.Delete).Methods("DELETE", "OPTIONS")
	api.HandleFunc("/meals/{id}/ingredients", mealHandler.AddIngredient).Methods("POST", "OPTIONS")
	api.HandleFunc("/meals/{id}/log", mealHandler.Log).Methods("POST", "OPTIONS")

	api.HandleFunc("/search", searchHandler.Search).Methods("GET", "OPTIONS")
	api.HandleFunc("/search/barcode/{code}", searchHandler.LookupBarcode).Methods("GET", "OPTIONS")

	api.HandleFunc("/sync", syncHandler.Trigger).Methods("POST", "OPTIONS")
	api.HandleFunc("/sync/status", syncHandler.Status).Methods("GET", "OPTIONS")

	api.HandleFunc("/devices", deviceHandler.Register).Methods("POST", "OPTIONS")
	api.HandleFunc("/devices", deviceHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/devices/{id}", deviceHandler.Revoke).Methods("DELETE", "OPTIONS")

	api.HandleFunc("/energy/estimate", energyHandler.Estimate).Methods("POST", "OPTIONS")
	api.HandleFunc("/energy/exercise", energyHandler.EstimateExercise).Methods("POST", "OPTIONS")

	r.HandleFunc("/ws", wsHandler.HandleConnection)

	// Background sync loop.
	if cfg.Sync.Interval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Sync.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					report, err := engine.Sync(ctx)
					if err != nil {
						log.Printf("background sync: %v", err)
						continue
					}
					msg, err := websocket.NewMessage(websocket.TypeSyncReport, websocket.SyncReportPayload{
						Pushed:   report.Pushed,
						Pulled:   report.Pulled,
						Skipped:  report.Skipped,
						Deferred: report.Deferred,
						Failures: len(report.Failures),
					})
					if err != nil {
						continue
					}
					if cfg.Sync.UserID != "" {
						wsManager.BroadcastToUser(cfg.Sync.UserID, msg, "")
					}
				}
			}
		}()
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	server := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
