package usecase

import (
	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/domain/audit"
	"portal_orcamentos/internal/domain/catalog"
	"portal_orcamentos/internal/domain/lifecycle"
	"portal_orcamentos/internal/usecase/interfaces"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("usecase",
	fx.Provide(
		NewSnowflakeNode,
		catalog.New,
		audit.NewBuilder,
		quoteConfig,
		fx.Annotate(NewQuoteUseCase, fx.As(new(IQuoteUseCase))),
		fx.Annotate(newUserUseCase, fx.As(new(IUserUseCase))),
		fx.Annotate(NewCartUseCase, fx.As(new(ICartUseCase))),
	),
)

func quoteConfig(cfg config.Config) (QuoteUseCaseConfig, error) {
	policy, err := lifecycle.ParsePolicy(cfg.Lifecycle.TransitionPolicy)
	if err != nil {
		return QuoteUseCaseConfig{}, err
	}
	return QuoteUseCaseConfig{
		Policy:           policy,
		FallbackAddress:  cfg.Notification.FallbackAddress,
		AttachmentPrefix: cfg.Storage.AttachmentPrefix,
	}, nil
}

func newUserUseCase(
	repo interfaces.IUserRepository,
	hasher interfaces.IPasswordHasher,
	tokens interfaces.ITokenIssuer,
	clk clock.Clock,
	cfg config.Config,
	log *zap.Logger,
) *UserUseCase {
	return NewUserUseCase(repo, hasher, tokens, clk, cfg.Auth.StaffPasscode, log)
}

// NewSnowflakeNode builds the audit id generator for the configured node.
func NewSnowflakeNode(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.Snowflake.Node)
}
