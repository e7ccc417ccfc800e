package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addBlockHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/add_block"
	addOverrideHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/add_override"
	addSlotHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/add_slot"
	getScheduleHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/get_schedule"
	removeOverrideHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/remove_override"
	retrySaveHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/retry_save"
	setViewModeHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/set_view_mode"
	streamHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/stream"
	updateDayHandler "github.com/m04kA/SMC-AvailabilityService/internal/api/handlers/update_day"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/config"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	schedStoreClient "github.com/m04kA/SMC-AvailabilityService/internal/integrations/schedstore"
	scheduleService "github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	syncService "github.com/m04kA/SMC-AvailabilityService/internal/service/sync"
	"github.com/m04kA/SMC-AvailabilityService/internal/ws"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-AvailabilityService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var syncRecorder syncService.Recorder

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		syncRecorder = metricsCollector
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Сетка времени по умолчанию: применяется, пока хранилище не
	// вернуло собственную
	gridStep := cfg.Sync.GridStepMinutes
	if gridStep == 0 {
		gridStep = domain.DefaultGridStepMinutes
	}
	dayStart := domain.TimeOfDay(cfg.Sync.DayStart)
	if !dayStart.IsValid() {
		dayStart = domain.DefaultDayStart
	}
	dayEnd := domain.TimeOfDay(cfg.Sync.DayEnd)
	if !dayEnd.IsValid() {
		dayEnd = domain.DefaultDayEnd
	}
	defaultGrid := domain.BuildGrid(gridStep, dayStart, dayEnd)

	slotDuration := cfg.Sync.SlotDurationMinutes
	if slotDuration == 0 {
		slotDuration = domain.DefaultSlotDurationMinutes
	}

	// Клиент хранилища расписаний
	storeClient := schedStoreClient.NewClient(
		cfg.Store.URL,
		time.Duration(cfg.Store.Timeout)*time.Second,
		log,
	)
	log.Info("Schedule store client initialized (url=%s, timeout=%ds)", cfg.Store.URL, cfg.Store.Timeout)

	// Сервис расписаний: загружаем стартовое состояние из хранилища
	scheduleSvc := scheduleService.NewService(storeClient, log, slotDuration, defaultGrid)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	if err := scheduleSvc.Load(loadCtx); err != nil {
		cancelLoad()
		log.Fatal("Failed to load availability from store: %v", err)
	}
	cancelLoad()
	log.Info("Availability loaded from store")

	// Websocket hub для трансляции статусов сохранения в редактор
	hub := ws.NewHub(log)
	go hub.Run()

	// Движок синхронизации: отложенная отправка правок в хранилище
	syncMgr := syncService.NewManager(
		cfg.Sync.Debounce(),
		syncService.Hooks[*schedStoreClient.SaveScheduleRequest, *schedStoreClient.SaveScheduleResponse]{
			Build: scheduleSvc.BuildSavePayload,
			Submit: func(ctx context.Context, _ string, payload *schedStoreClient.SaveScheduleRequest) (*schedStoreClient.SaveScheduleResponse, error) {
				return storeClient.SaveInspectorSchedule(ctx, payload)
			},
			Reconcile: scheduleSvc.ApplyCanonical,
		},
		log,
		syncRecorder,
		hub.BroadcastSyncState,
	)
	log.Info("Sync engine initialized (debounce=%dms)", cfg.Sync.DebounceMs)

	// Инициализируем handlers
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, syncMgr, log)
	updateDay := updateDayHandler.NewHandler(scheduleSvc, syncMgr, log)
	addBlock := addBlockHandler.NewHandler(scheduleSvc, syncMgr, log)
	addSlot := addSlotHandler.NewHandler(scheduleSvc, syncMgr, log)
	addOverride := addOverrideHandler.NewHandler(scheduleSvc, syncMgr, log)
	removeOverride := removeOverrideHandler.NewHandler(scheduleSvc, syncMgr, log)
	setViewMode := setViewModeHandler.NewHandler(scheduleSvc, log)
	retrySave := retrySaveHandler.NewHandler(scheduleSvc, syncMgr, log)
	stream := streamHandler.NewHandler(hub, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// Снимок всех расписаний, сетки и статусов сохранения
	api.HandleFunc("/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// --- Правки расписания инспектора ---
	api.HandleFunc("/inspectors/{inspectorId}/days/{day}", updateDay.Handle).Methods(http.MethodPut)
	api.HandleFunc("/inspectors/{inspectorId}/days/{day}/blocks", addBlock.Handle).Methods(http.MethodPost)
	api.HandleFunc("/inspectors/{inspectorId}/days/{day}/slots", addSlot.Handle).Methods(http.MethodPost)
	api.HandleFunc("/inspectors/{inspectorId}/overrides", addOverride.Handle).Methods(http.MethodPost)
	api.HandleFunc("/inspectors/{inspectorId}/overrides", removeOverride.Handle).Methods(http.MethodDelete)

	// Немедленный повтор сохранения после ошибки
	api.HandleFunc("/inspectors/{inspectorId}/retry", retrySave.Handle).Methods(http.MethodPost)

	// Глобальный режим отображения
	api.HandleFunc("/view-mode", setViewMode.Handle).Methods(http.MethodPut)

	// Поток статусов сохранения
	api.HandleFunc("/ws", stream.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем движок синхронизации и отключаем клиентов
	syncMgr.Close()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
