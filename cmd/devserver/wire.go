//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cory-johannsen/clash/internal/app"
	"github.com/cory-johannsen/clash/internal/config"
)

func initializeDevServer(cfg config.Config, component app.Component) (*app.App, func(), error) {
	wire.Build(app.CoreSet, app.MemorySet)
	return nil, nil, nil
}
