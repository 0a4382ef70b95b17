package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartController "github.com/fauzankm/storefront/cart/controller"
	cartService "github.com/fauzankm/storefront/cart/service"
	contentController "github.com/fauzankm/storefront/content/controller"
	"github.com/fauzankm/storefront/internal/config"
	"github.com/fauzankm/storefront/internal/constants"
	"github.com/fauzankm/storefront/internal/infra"
	"github.com/fauzankm/storefront/internal/kv"
	"github.com/fauzankm/storefront/internal/log"
	"github.com/fauzankm/storefront/internal/middleware"
	"github.com/fauzankm/storefront/internal/notification"
	"github.com/fauzankm/storefront/internal/otel"
	notificationController "github.com/fauzankm/storefront/notification/controller"
	productController "github.com/fauzankm/storefront/product/controller"
	productService "github.com/fauzankm/storefront/product/service"
	userController "github.com/fauzankm/storefront/user/controller"
	userService "github.com/fauzankm/storefront/user/service"
	wishlistController "github.com/fauzankm/storefront/wishlist/controller"
	wishlistService "github.com/fauzankm/storefront/wishlist/service"
)

func RunStorefrontService(c context.Context) {
	c, span := otel.Tracer.Start(c, "RunStorefrontService")
	defer span.End()

	logger := log.InitLogger(fmt.Sprintf("/var/log/%s.log", constants.AppStorefrontService)).
		With().
		Str(log.KeyAppName, constants.AppStorefrontService).
		Str(log.KeyTag, "main RunStorefrontService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, constants.AppStorefrontService)
	logger = logger.With().Any(log.KeyConfig, cfg).Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := otel.InitOtelSdk(c, constants.AppStorefrontService, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		logger.Err(err).Msg(err.Error())
		otel.RecordError(err, span)
		return
	}
	logger.Info().Msg("initialized otel sdk")
	defer func() {
		logger.Info().Msg("shutting down otel")
		err = otel.ShutdownOtel(c, shutdownFuncs)
		if err != nil {
			err = fmt.Errorf("failed shutting down otel with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Info().Msg("shutdown otel")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing cache").Logger()
	logger.Info().Msg("initializing cache")
	c = logger.WithContext(c)
	cache := infra.NewCacheClient(c, cfg.Cache)
	logger.Info().Msg("initialized cache")
	defer func() {
		logger := logger.With().Str(log.KeyProcess, "shutting down cache connection").Logger()
		logger.Info().Msg("shutting down cache connection")
		span.AddEvent("shutting down cache connection")
		err := cache.Close()
		if err != nil {
			err = fmt.Errorf("failed closing cache with error=%w", err)
			logger.Error().Err(err).Msg(err.Error())
			otel.RecordError(err, span)
			return
		}
		span.AddEvent("shutdown cache connection")
		logger.Info().Msg("shutdown cache connection")
	}()

	logger = logger.With().Str(log.KeyProcess, "initializing services").Logger()
	logger.Info().Msg("initializing services")
	store := kv.NewRedisStore(cache)
	hub := notification.NewHub()
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}
	prdService := productService.NewProductService(httpClient, store, cfg.Catalog)
	crtService := cartService.NewCartService(hub)
	authService := userService.NewAuthService(httpClient, store, cfg.Account)
	wshService := wishlistService.NewWishlistService(authService, store, hub)
	logger.Info().Msg("initialized services")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	mux := mux.NewRouter()
	mux.StrictSlash(true)
	mux.Use(
		otelmux.Middleware(constants.AppStorefrontService),
		middleware.Logging,
		middleware.RecoverPanic,
		middleware.RateLimit(cfg.RateLimit.Rps, cfg.RateLimit.Burst),
		middleware.Session(cfg.Application.SecretKey),
	)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "attaching controllers").Logger()
	logger.Info().Msg("attaching controllers")
	productController.AttachProductController(mux, &prdService)
	cartController.AttachCartController(mux, crtService)
	userController.AttachAuthController(mux, authService)
	wishlistController.AttachWishlistController(mux, wshService)
	notificationController.AttachNotificationController(mux, hub)
	contentController.AttachContentController(mux)
	logger.Info().Msg("attached controllers")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	logger.Info().Msg("initialized server")
	defer func() {
		logger = logger.With().Str(log.KeyProcess, "shutting down http server").Logger()
		span.AddEvent("shutting down http server")
		logger.Info().Msg("shutting down http server")
		err = server.Shutdown(c)
		if err != nil {
			err = fmt.Errorf("failed shutting down http server with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		span.AddEvent("shutdown server")
		logger.Info().Msg("shutdown server")
	}()

	go func() {
		logger = logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
			err = fmt.Errorf("encounter error=%w while running server", err)
			logger.Error().Err(err).Msg(err.Error())
			c = logger.WithContext(c)
			if err := otel.ShutdownOtel(c, shutdownFuncs); err != nil {
				err = fmt.Errorf("failed shutting down otel with error=%w", err)
				otel.RecordError(err, span)
				logger.Error().Err(err).Msg(err.Error())
			}
			return
		}
		logger.Info().Msg("shutdown server")
	}()

	<-c.Done()
	logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
	logger.Info().Msg("received interuption signal shutting down")
	c = logger.WithContext(c)
	err = server.Shutdown(c)
	if err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown server")

	logger.Info().Msg("shutting down otel")
	c = logger.WithContext(c)
	err = otel.ShutdownOtel(c, shutdownFuncs)
	if err != nil {
		err = fmt.Errorf("failed shutting down otel with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown otel")
	logger.Info().Msg("server completely shutdown")
}
