package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"medrecord-api/internal/apperr"
	"medrecord-api/internal/audit"
	"medrecord-api/internal/auth"
	"medrecord-api/internal/config"
	"medrecord-api/internal/handler"
	mw "medrecord-api/internal/middleware"
	"medrecord-api/internal/scheduling"
	"medrecord-api/internal/session"
	"medrecord-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("config")
	}

	log := newLogger(cfg)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("db ping")
	}
	log.Info().Msg("connected to postgres")

	// run migrations
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Warn().Err(err).Msg("migration file not found, skipping")
	} else if _, err := pool.Exec(ctx, string(migration)); err != nil {
		log.Warn().Err(err).Msg("migration")
	} else {
		log.Info().Msg("migration applied")
	}

	st := store.New(pool)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL())
	sessions := session.NewManager(st, tokens, cfg.SessionMaxAge(false), cfg.SessionMaxAge(true), log)
	conflict := scheduling.NewChecker(st)
	recorder := audit.NewRecorder(st, log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(echomw.Recover())
	e.Use(mw.RequestLogger(log))

	h := handler.New(st, sessions, conflict, recorder, cfg, log)
	limiter := mw.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	h.Register(e, mw.Auth(tokens), limiter)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	var w = os.Stderr
	if cfg.LogPretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// errorHandler converts apperr kinds into HTTP statuses. Internal
// failures are logged with their cause and answered generically.
func errorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg, ok := he.Message.(string)
			if !ok {
				msg = http.StatusText(he.Code)
			}
			_ = c.JSON(he.Code, errorBody{Message: msg, Code: "http_error"})
			return
		}

		kind := apperr.KindOf(err)
		if kind == apperr.StoreFailure {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("internal error")
		}
		_ = c.JSON(kind.HTTPStatus(), errorBody{Message: apperr.PublicMessage(err), Code: kind.String()})
	}
}
