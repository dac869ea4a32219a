package auth

import (
	"portal_orcamentos/internal/clock"
	"portal_orcamentos/internal/config"
	"portal_orcamentos/internal/usecase/interfaces"

	"golang.org/x/crypto/bcrypt"
	"go.uber.org/fx"
)

var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			func() *BcryptHasher { return NewBcryptHasher(bcrypt.DefaultCost) },
			fx.As(new(interfaces.IPasswordHasher)),
		),
		fx.Annotate(
			func(cfg config.Config, clk clock.Clock) (*TokenService, error) {
				return NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clk)
			},
			fx.As(fx.Self()),
			fx.As(new(interfaces.ITokenIssuer)),
		),
	),
)
