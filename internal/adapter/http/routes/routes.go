package routes

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	_ "portal_orcamentos/docs" // This will be auto-generated
	"portal_orcamentos/internal/adapter/http/handlers"
	"portal_orcamentos/internal/adapter/http/middleware"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/infrastructure/auth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("http",
	fx.Provide(
		handlers.NewQuoteHandler,
		handlers.NewUserHandler,
		handlers.NewCartHandler,
		handlers.NewCatalogHandler,
		newHandlers,
		tokenParser,
		NewEngine,
	),
	fx.Invoke(run),
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Quotes  *handlers.QuoteHandler
	Users   *handlers.UserHandler
	Cart    *handlers.CartHandler
	Catalog *handlers.CatalogHandler
}

func newHandlers(q *handlers.QuoteHandler, u *handlers.UserHandler, c *handlers.CartHandler, cat *handlers.CatalogHandler) Handlers {
	return Handlers{Quotes: q, Users: u, Cart: c, Catalog: cat}
}

// NewEngine builds the gin engine with middlewares and every route registered.
func NewEngine(h Handlers, tokens middleware.TokenParser, log *zap.Logger) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, log)

	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addAuthRoutes(v1, h.Users)
	addCatalogRoutes(v1, h.Catalog)

	private := v1.Group("", middleware.RequireAuth(tokens))
	addProfileRoutes(private, h.Users)
	addCartRoutes(private, h.Cart)
	addQuoteRoutes(private, h.Quotes)
	return router
}

func setMiddlewares(router *gin.Engine, log *zap.Logger) {
	router.Use(middleware.RequestLogger(log))
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("recovered from panic", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func run(lc fx.Lifecycle, cfg config.Config, router *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("failed to start the application", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// tokenParser exposes the token service to the auth middleware.
func tokenParser(tokens *auth.TokenService) middleware.TokenParser {
	return tokens
}
