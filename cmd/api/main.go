package main

import (
	_ "portal_orcamentos/docs"
	"portal_orcamentos/internal/adapter/http/routes"
	"portal_orcamentos/internal/adapter/persistence/gateway"
	"portal_orcamentos/internal/adapter/persistence/kvstore"
	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/infrastructure/auth"
	"portal_orcamentos/internal/infrastructure/metrics"
	"portal_orcamentos/internal/infrastructure/notification"
	"portal_orcamentos/internal/logger"
	"portal_orcamentos/internal/usecase"
	"portal_orcamentos/internal/usecase/interfaces"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// @title           Portal de Orçamentos API
// @version         1.0
// @description     Customer quote portal: catalog, cart, quotes with status lifecycle, attachments and live updates.

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		metrics.Module,
		fx.Provide(
			func(m *metrics.Metrics) interfaces.IQuoteMetrics { return m },
			func(m *metrics.Metrics) gateway.FailureRecorder { return m },
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),

		// Storage
		kvstore.Module,
		gateway.Module,

		// Domain
		auth.Module,
		notification.Module,
		usecase.Module,

		routes.Module,
	)
	app.Run()
}
