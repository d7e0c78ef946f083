package ledger

import (
	"github.com/civistack/revena/internal/ledger/repository"
	"github.com/civistack/revena/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
