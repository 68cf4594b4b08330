package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"neurosurg/learning-app/internal/api"
	"neurosurg/learning-app/internal/atlas"
	"neurosurg/learning-app/internal/config"
	"neurosurg/learning-app/internal/repository/jsonfile"
	"neurosurg/learning-app/internal/service"
	"neurosurg/learning-app/internal/storage"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	logger.Info().Msg("Starting Neurosurgery Learning App server...")

	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	// --- Record store + atlas ---
	store := jsonfile.NewStore(cfg.Storage.DataFile, logger)
	atlasReader := atlas.NewReader(cfg.Storage.AtlasFile)

	// --- Repositories ---
	procedureRepo := jsonfile.NewProcedureRepository(store)
	userRepo := jsonfile.NewUserRepository(store)
	caseLogRepo := jsonfile.NewCaseLogRepository(store)

	// --- Object storage (optional) ---
	var mediaService service.MediaService
	if cfg.S3.Enabled {
		fileStorage, err := storage.NewS3Storage(cfg.S3, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize S3 storage")
		}
		mediaService = service.NewMediaService(fileStorage)
	} else {
		logger.Info().Msg("object storage disabled; media upload routes will not be mounted")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	procedureService := service.NewProcedureService(procedureRepo)
	caseLogService := service.NewCaseLogService(caseLogRepo, procedureRepo)

	// --- Gin engine ---
	router := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	api.SetupRoutes(router, cfg.JWT.Secret, authService, procedureService, caseLogService, atlasReader, mediaService)

	// Frontend assets; anything that is not an API route falls
	// through to the file server.
	if cfg.Server.StaticDir != "" {
		if _, err := os.Stat(cfg.Server.StaticDir); err == nil {
			router.NoRoute(gin.WrapH(http.FileServer(http.Dir(cfg.Server.StaticDir))))
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info().Str("address", cfg.Server.Address).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exiting")
}
