package auth

import (
	"github.com/civistack/revena/internal/auth/repository"
	"github.com/civistack/revena/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
