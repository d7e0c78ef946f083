package taxpayer

import (
	"github.com/civistack/revena/internal/taxpayer/repository"
	"github.com/civistack/revena/internal/taxpayer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxpayer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
