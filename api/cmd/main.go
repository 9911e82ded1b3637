package main

import (
	"io"

	"github.com/ezalahmad/account-service/app/config"
	"github.com/ezalahmad/account-service/app/logger"
	"github.com/ezalahmad/account-service/app/services"
	"github.com/ezalahmad/account-service/app/store"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load .env file (if it exists)
	config.Load()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	logger.Logger.Info().Msg("connecting to postgres")

	db, err := config.NewDB(
		cfg.DB.Addr,
		cfg.DB.MaxOpenConns,
		cfg.DB.MaxIdleConns,
		cfg.DB.MaxIdleTime,
	)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	logger.Logger.Info().Msg("postgres connection pool established")

	closers := []io.Closer{db}

	tokens, err := services.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("failed to build token service")
	}

	var notifier services.Notifier
	switch cfg.Notify.Transport {
	case config.TransportAMQP:
		logger.Logger.Info().Msg("connecting to RabbitMQ")
		conn, ch, err := config.NewAMQPConnection(cfg.Notify.AMQPURL)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		closers = append(closers, ch, conn)
		notifier = services.NewAMQPNotifier(ch)
	default:
		notifier = services.NewSMTPNotifier(cfg.Notify.SMTP)
	}

	var consumed *services.ConsumedTokens
	if cfg.VerifySingleUse {
		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("connecting to redis")
		redisClient, err := config.NewRedisClient(cfg.RedisAddr)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		closers = append(closers, redisClient)
		consumed = services.NewConsumedTokens(redisClient, cfg.TokenTTL)
	}

	st := store.NewStorage(db)
	accounts := services.NewAccountService(st, tokens, notifier, consumed, cfg.VerifyBaseURL)

	app := &application{
		config:   cfg,
		accounts: accounts,
	}

	if err := app.runWithGracefulShutdown(app.mount(), closers); err != nil {
		logger.Logger.Fatal().Err(err).Msg("server error")
	}
}
