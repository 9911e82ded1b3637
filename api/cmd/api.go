package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ezalahmad/account-service/app/config"
	"github.com/ezalahmad/account-service/app/dto"
	appErrors "github.com/ezalahmad/account-service/app/errors"
	"github.com/ezalahmad/account-service/app/logger"
	"github.com/ezalahmad/account-service/app/services"
)

// accountService is the workflow surface the handlers call. An interface so
// tests can swap in a fake.
type accountService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, *appErrors.AppError)
	Signin(ctx context.Context, req dto.SigninRequest) (*dto.SigninResponse, *appErrors.AppError)
	Verify(ctx context.Context, token string) (*services.VerifyOutcome, *appErrors.AppError)
}

type application struct {
	config   config.Config
	accounts accountService
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestIDTracing())
	r.Use(middleware.Recoverer)
	r.Use(httpLogger)

	// Bound every request so a stuck mail server cannot hold the
	// handler goroutine forever.
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/signup", app.signupHandler)
	r.Post("/signin", app.signinHandler)
	r.Get("/verify/{token}", app.verifyHandler)

	return r
}

// runWithGracefulShutdown starts the server, waits for SIGTERM/SIGINT,
// drains in-flight requests, then closes the backing connections in order.
func (app *application) runWithGracefulShutdown(mux http.Handler, closers []io.Closer) error {
	srv := &http.Server{
		Addr:         app.config.Addr,
		Handler:      mux,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Logger.Info().Str("addr", app.config.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Logger.Info().Str("signal", sig.String()).Msg("Received signal, starting graceful shutdown")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	logger.Logger.Info().Msg("Server gracefully stopped")

	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Error closing connection")
		}
	}

	logger.Logger.Info().Msg("Graceful shutdown completed")
	return nil
}
