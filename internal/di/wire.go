//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"tempo/internal/engine"
	"tempo/internal/mutation"
)

// InitializeContainer sets up all dependencies
func InitializeContainer() (*Container, error) {
	wire.Build(
		ProvideLoader,
		ProvideConfig,
		ProvideTaskAPI,
		ProvideStore,
		ProvideNotifyCenter,
		mutation.NewCoordinator,
		engine.NewCoordinator,

		wire.Struct(new(Container), "*"),
	)
	return nil, nil
}
