package notification

import (
	"context"
	"fmt"

	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/infrastructure/database"
	"portal_orcamentos/internal/usecase/interfaces"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	DriverLog   = "log"
	DriverRedis = "redis"
)

var Module = fx.Module("notification",
	fx.Provide(NewFromConfig),
)

// NewFromConfig picks the sink named by notification.driver.
func NewFromConfig(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) (interfaces.INotifier, error) {
	switch cfg.Notification.Driver {
	case "", DriverLog:
		return NewLogNotifier(log), nil
	case DriverRedis:
		client := database.NewRedisClient(cfg.Redis)
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error { return client.Close() },
		})
		log.Info("notifications queued in redis", zap.String("key", cfg.Notification.QueueKey))
		return NewQueueNotifier(client, cfg.Notification.QueueKey, clk), nil
	default:
		return nil, fmt.Errorf("unknown notification driver %q", cfg.Notification.Driver)
	}
}
