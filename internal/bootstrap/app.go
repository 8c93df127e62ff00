package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"postboard/internal/config"
	"postboard/internal/pkg/logger"
	"postboard/internal/platform/database"
	rabbitmqClient "postboard/internal/platform/rabbitmq"
	redisClient "postboard/internal/platform/redis"
	"postboard/internal/repository"
	"postboard/internal/worker"
)

// App owns the process-wide resources. It is built once at startup and handed
// to the router; nothing else reaches for globals.
type App struct {
	Config         *config.Config
	Log            zerolog.Logger
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityWorker

	StartedAt time.Time
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logger.New(cfg.Log)
	a := &App{
		Config:    cfg,
		Log:       log,
		StartedAt: time.Now(),
	}

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DSN(), log)
	if err != nil {
		return nil, err
	}
	a.DB = db
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			_ = a.Close()
			return nil, err
		}
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Redis = redisCli

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL, cfg.RabbitMQ.ActivityQueue)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.MQConn = mqConn

	if mqConn != nil {
		activityWorker := worker.NewActivityWorker(mqConn, repository.NewActivityRepository(db), cfg.RabbitMQ.ActivityQueue, log)
		if err := activityWorker.Start(ctx); err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("start activity worker failed: %w", err)
		}
		a.ActivityWorker = activityWorker
	}

	log.Info().
		Str("driver", cfg.Database.Driver).
		Bool("redis", redisCli != nil).
		Bool("rabbitmq", mqConn != nil).
		Msg("resources ready")
	return a, nil
}

func (a *App) Close() error {
	var errs []error
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq: %w", err))
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close database: %w", err))
			}
		}
	}
	return errors.Join(errs...)
}
