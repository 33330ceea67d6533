package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "pha-locator/docs"
	"pha-locator/internal/config"
	"pha-locator/internal/handler"
	"pha-locator/internal/repository"
	"pha-locator/internal/resolver"
	"pha-locator/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}
	setupLogger(config.LogLevel, config.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	zips, err := repository.OpenZipStore(ctx, config.ZipDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot open zipcode db")
	}
	defer zips.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	locations := resolver.NewResolver(repo, zips, config.CityRadiusMiles)

	locationService := service.NewLocationService(locations)
	agencyService := service.NewAgencyService(repo, config.PageSize)
	sessionService := service.NewSessionService(repo, locations, service.SessionOptions{
		PageSize:        config.PageSize,
		CityRadiusMiles: config.CityRadiusMiles,
		TTL:             config.SessionTTL,
		FetchTimeout:    config.FetchTimeout,
	}, log.Logger)

	locationHandler := handler.NewLocationHandler(locationService)
	agencyHandler := handler.NewAgencyHandler(agencyService)
	sessionHandler := handler.NewSessionHandler(sessionService)

	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLogger(log.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"sessions": sessionService.Len(),
		})
	})

	r.GET("/locations", locationHandler.Search)
	r.GET("/agencies", agencyHandler.List)
	r.GET("/agencies/:id", agencyHandler.Get)
	sessionHandler.Register(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", config.ServerAddress).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessionService.RunSweeper(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped")
}

func setupLogger(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
