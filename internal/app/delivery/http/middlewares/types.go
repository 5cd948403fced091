package middlewares

import (
	"medblock-service/internal/app/config"
	"medblock-service/internal/app/contracts"

	"go.uber.org/zap"
)

type Middlewares struct {
	Log              *zap.Logger
	IdentityResolver contracts.IdentityResolver
	InternalConfig   *config.InternalConfig
}

func NewMiddlewares(logger *zap.Logger, identityResolver contracts.IdentityResolver, internalConfig *config.InternalConfig) *Middlewares {
	return &Middlewares{
		Log:              logger,
		IdentityResolver: identityResolver,
		InternalConfig:   internalConfig,
	}
}
