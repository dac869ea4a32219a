package gateway

import (
	"context"

	"portal_orcamentos/internal/adapter/persistence/kvstore"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/usecase/interfaces"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("gateway",
	fx.Provide(
		fx.Annotate(
			NewFromConfig,
			fx.As(fx.Self()),
			fx.As(new(interfaces.IQuoteRepository)),
			fx.As(new(interfaces.IUserRepository)),
			fx.As(new(interfaces.ICartRepository)),
			fx.As(new(interfaces.IBlobStore)),
		),
	),
	fx.Invoke(migrateOnStart),
)

func NewFromConfig(cfg config.Config, store kvstore.Store, hasher interfaces.IPasswordHasher, failures FailureRecorder, log *zap.Logger) *Gateway {
	return New(store, Keys{
		Quotes:           cfg.Storage.QuotesKey,
		Users:            cfg.Storage.UsersKey,
		CartPrefix:       cfg.Storage.CartPrefix,
		AttachmentPrefix: cfg.Storage.AttachmentPrefix,
	}, hasher, failures, log)
}

// migrateOnStart rewrites legacy collections before the HTTP server starts taking
// requests.
func migrateOnStart(lc fx.Lifecycle, g *Gateway) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			g.Migrate(ctx)
			return nil
		},
	})
}
