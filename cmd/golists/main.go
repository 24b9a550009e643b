package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/golists/internal/app"
	"github.com/tempizhere/golists/internal/config"
	grpcserver "github.com/tempizhere/golists/internal/grpc"
	"github.com/tempizhere/golists/internal/grpc/proto"
	"github.com/tempizhere/golists/internal/log"
	"github.com/tempizhere/golists/internal/middleware"
	"github.com/tempizhere/golists/internal/repository"
	"github.com/tempizhere/golists/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	logger := log.NewLogger()
	defer logger.Sync()

	// Получаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Подключаем базу данных, если задан DSN
	db, err := app.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Выбираем хранилище: PostgreSQL, файл или память
	var repo repository.Repository
	switch {
	case db != nil:
		repo, err = repository.NewPostgresRepository(db, logger)
		if err != nil {
			logger.Fatal("Failed to create postgres repository", zap.Error(err))
		}
	case cfg.FileStoragePath != "":
		repo, err = repository.NewFileRepository(cfg.FileStoragePath, logger)
		if err != nil {
			logger.Fatal("Failed to create file repository", zap.Error(err))
		}
	default:
		repo = repository.NewMemoryRepository()
	}

	svc := service.NewService(repo, cfg.SiteURL, cfg.JWTSecret)
	appInstance := app.NewApp(svc, db, logger)

	// Создаём маршрутизатор
	r := chi.NewRouter()
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.GzipMiddleware)
	r.Use(middleware.AuthMiddleware(svc, cfg, logger))

	// Регистрируем обработчики
	r.Get("/lists", appInstance.HandleGetLists)
	r.Post("/lists", appInstance.HandleSaveList)
	r.Put("/lists", appInstance.HandleUpdateList)
	r.Delete("/lists", appInstance.HandleDeleteListByQuery)
	r.Get("/lists/{id}", appInstance.HandleGetList)
	r.Post("/lists/{id}", appInstance.HandleAddURL)
	r.Put("/lists/{id}", appInstance.HandleUpdateURL)
	r.Delete("/lists/{id}", appInstance.HandleDeleteList)
	r.Delete("/lists/{id}/urls/{urlID}", appInstance.HandleDeleteURL)
	r.Post("/lists/{id}/publish", appInstance.HandlePublishList)
	r.Delete("/lists/{id}/publish", appInstance.HandleUnpublishList)
	r.Get("/list/{key}", appInstance.HandleResolveList)
	r.Get("/ping", appInstance.HandlePing)
	r.With(middleware.TrustedSubnetMiddleware(cfg.TrustedSubnet, logger)).
		Get("/api/internal/stats", appInstance.HandleStats)

	httpServer := &http.Server{
		Addr:    cfg.RunAddr,
		Handler: r,
	}

	// Запускаем gRPC сервер, если задан адрес
	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			logger.Fatal("Failed to listen for gRPC", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
		}
		grpcSrv = grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				grpcserver.LoggingInterceptor(logger),
				grpcserver.AuthInterceptor(svc, logger),
				grpcserver.TrustedSubnetInterceptor(cfg.TrustedSubnet, logger),
			),
		)
		proto.RegisterListsServiceServer(grpcSrv, grpcserver.NewServer(svc, db, logger))
		go func() {
			logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(listener); err != nil {
				logger.Error("gRPC server stopped", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.RunAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Ждём сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if db != nil {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}
}
