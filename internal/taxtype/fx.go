package taxtype

import (
	"github.com/civistack/revena/internal/taxtype/repository"
	"github.com/civistack/revena/internal/taxtype/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxtype.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
