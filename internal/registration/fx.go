package registration

import (
	"github.com/civistack/revena/internal/registration/service"
	"go.uber.org/fx"
)

var Module = fx.Module("registration.service",
	fx.Provide(service.New),
)
