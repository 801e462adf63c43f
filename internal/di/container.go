// Package di provides dependency injection configuration for the
// redirect server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/CyberBrown/solampio-web-sub002/internal/config"
	"github.com/CyberBrown/solampio-web-sub002/internal/di/providers"
	"github.com/CyberBrown/solampio-web-sub002/internal/logger"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Mapping store
	do.Provide(injector, providers.ProvideStore)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// listening. This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	return nil
}
