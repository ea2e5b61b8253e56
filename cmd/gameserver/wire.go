//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/clash/internal/app"
	"github.com/cory-johannsen/clash/internal/config"
)

func initializeStandalone(ctx context.Context, cfg config.Config, component app.Component) (*app.App, func(), error) {
	wire.Build(app.CoreSet, app.PostgresSet)
	return nil, nil, nil
}

func initializeMemory(cfg config.Config, component app.Component) (*app.App, func(), error) {
	wire.Build(app.CoreSet, app.MemorySet)
	return nil, nil, nil
}
