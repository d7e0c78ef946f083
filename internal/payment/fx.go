package payment

import (
	"github.com/civistack/revena/internal/payment/repository"
	"github.com/civistack/revena/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
