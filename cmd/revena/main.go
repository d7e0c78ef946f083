package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/civistack/revena/internal/audit"
	"github.com/civistack/revena/internal/auth"
	"github.com/civistack/revena/internal/config"
	"github.com/civistack/revena/internal/ledger"
	"github.com/civistack/revena/internal/migration"
	"github.com/civistack/revena/internal/observability"
	"github.com/civistack/revena/internal/payment"
	"github.com/civistack/revena/internal/registration"
	"github.com/civistack/revena/internal/reporting"
	"github.com/civistack/revena/internal/server"
	"github.com/civistack/revena/internal/taxpayer"
	"github.com/civistack/revena/internal/taxtype"
	"github.com/civistack/revena/pkg/db"
)

func main() {
	app := fx.New(
		// core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// functional domains
		audit.Module,
		auth.Module,
		taxpayer.Module,
		taxtype.Module,
		ledger.Module,
		payment.Module,
		registration.Module,
		reporting.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
