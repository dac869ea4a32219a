package kvstore

import (
	"context"
	"fmt"

	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/infrastructure/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("kvstore",
	fx.Provide(NewFromConfig),
)

// NewFromConfig builds the backend named by storage.driver and closes its
// connections when the application stops.
func NewFromConfig(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Store, error) {
	log = log.Named("kvstore")

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage; data is lost on restart")
		return NewMemoryStore(), nil

	case config.DriverDynamoDB:
		client, err := database.NewDynamoDBClient(context.Background(), cfg.DynamoDB)
		if err != nil {
			return nil, fmt.Errorf("dynamodb client: %w", err)
		}
		log.Info("using dynamodb storage", zap.String("table", cfg.DynamoDB.Table))
		return NewDynamoStore(client, cfg.DynamoDB.Table), nil

	case config.DriverRedis:
		client := database.NewRedisClient(cfg.Redis)
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		log.Info("using redis storage", zap.String("addr", cfg.Redis.Addr))
		return NewRedisStore(client), nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return sqlDB.Close()
			},
		})
		log.Info("using sql storage", zap.String("driver", cfg.Storage.Driver))
		return NewGormStore(db)

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
