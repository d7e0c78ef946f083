package migration

import (
	auditdomain "github.com/civistack/revena/internal/audit/domain"
	authdomain "github.com/civistack/revena/internal/auth/domain"
	"github.com/civistack/revena/internal/config"
	ledgerdomain "github.com/civistack/revena/internal/ledger/domain"
	paymentdomain "github.com/civistack/revena/internal/payment/domain"
	"github.com/civistack/revena/internal/seed"
	taxpayerdomain "github.com/civistack/revena/internal/taxpayer/domain"
	taxtypedomain "github.com/civistack/revena/internal/taxtype/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// mysql/sqlite deployments (and tests) build the schema from the models
			if err := conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&taxpayerdomain.TaxpayerProfile{},
				&taxtypedomain.TaxType{},
				&ledgerdomain.AccountLedger{},
				&paymentdomain.PaymentRequest{},
				&auditdomain.Entry{},
			); err != nil {
				return err
			}
		}

		return seed.Ensure(conn, cfg)
	}),
)
