package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/appointment-board/internal/adapters/in/http"
	"github.com/suchimauz/appointment-board/internal/adapters/in/rabbitmq"
	"github.com/suchimauz/appointment-board/internal/adapters/out/cache"
	"github.com/suchimauz/appointment-board/internal/adapters/out/exporter"
	"github.com/suchimauz/appointment-board/internal/adapters/out/logger"
	"github.com/suchimauz/appointment-board/internal/adapters/out/notifier"
	"github.com/suchimauz/appointment-board/internal/adapters/out/store"
	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
	"github.com/suchimauz/appointment-board/internal/core/services/board_service"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"storeUrl":        cfg.Store.URL,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация адаптеров
	storeAdapter := store.NewStoreAdapter(cfg, mainLogger)
	bannerNotifier := notifier.NewBannerNotifier(mainLogger)
	csvExporter := exporter.NewCSVExporter(mainLogger)

	// Интерфейс остается nil, если кэш выключен
	var cacheAdapter out.ViewCachePort
	if cfg.Cache.Enabled {
		viewCache, err := cache.NewCacheAdapter(cfg, mainLogger)
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = viewCache
	}

	// Инициализация сервиса
	boardService := board_service.NewBoardService(
		storeAdapter,
		cacheAdapter,
		csvExporter,
		bannerNotifier,
		mainLogger,
		cfg.Board.PageSize,
	)

	// Первичная загрузка. Ошибка не фатальна: уведомление уже выставлено, список можно обновить вручную
	if err := boardService.Refresh(ctx); err != nil {
		logger.Warn("app.initial_refresh.failed", out.LogFields{
			"error": err.Error(),
		})
	}

	// Настройка HTTP сервера
	router := gin.Default()
	controller := http.NewBoardController(
		boardService,
		bannerNotifier,
		csvExporter,
		cfg,
	)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewStoreEventListener(boardService, cfg, mainLogger)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})

	// Дополнительное логирование для разработки
	if cfg.IsLocal() {
		logger.Debug("app.config.debug", out.LogFields{
			"config": map[string]interface{}{
				"http": map[string]string{
					"host": cfg.HTTP.Host,
					"port": cfg.HTTP.Port,
				},
				"store": map[string]interface{}{
					"url":     cfg.Store.URL,
					"timeout": cfg.Store.Timeout.String(),
				},
				"rabbitmq": map[string]interface{}{
					"enabled":  cfg.RabbitMQ.Enabled,
					"exchange": cfg.RabbitMQ.Exchange,
					"queue":    cfg.RabbitMQ.Queue,
				},
				"cache": map[string]interface{}{
					"enabled": cfg.Cache.Enabled,
					"size":    cfg.Cache.Size,
				},
				"board": map[string]interface{}{
					"pageSize": cfg.Board.PageSize,
				},
			},
		})
	}
}
