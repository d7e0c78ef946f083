package seed

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/civistack/revena/internal/auth/domain"
	"github.com/civistack/revena/internal/auth/password"
	"github.com/civistack/revena/internal/config"
	taxtypedomain "github.com/civistack/revena/internal/taxtype/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// defaultTaxTypes are created on first boot so payment requests can be
// categorized without an administrator having to provision the lookup table.
var defaultTaxTypes = []string{
	"Property Tax",
	"Business License",
	"Service Levy",
	"Billboard Fee",
}

// Ensure provisions reference data and the bootstrap administrator account.
// It is safe to run on every startup.
func Ensure(conn *gorm.DB, cfg config.Config) error {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	if err := ensureTaxTypes(conn, node); err != nil {
		return err
	}
	return ensureAdmin(conn, node, cfg)
}

func ensureTaxTypes(conn *gorm.DB, node *snowflake.Node) error {
	for _, name := range defaultTaxTypes {
		var existing taxtypedomain.TaxType
		err := conn.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		taxType := taxtypedomain.TaxType{
			ID:        node.Generate(),
			Name:      name,
			CreatedAt: time.Now().UTC(),
		}
		if err := conn.Create(&taxType).Error; err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin creates the administrator named by SEED_ADMIN_EMAIL when no
// user with that email exists yet. Registration never assigns roles, so this
// is the only way an administrator account comes into being.
func ensureAdmin(conn *gorm.DB, node *snowflake.Node, cfg config.Config) error {
	email := strings.ToLower(strings.TrimSpace(cfg.SeedAdminEmail))
	if email == "" {
		return nil
	}
	if cfg.SeedAdminPassword == "" {
		zap.L().Warn("seed admin email set without password, skipping bootstrap",
			zap.String("email", email),
		)
		return nil
	}

	var existing authdomain.User
	err := conn.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := password.Hash(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := authdomain.User{
		ID:           node.Generate(),
		Email:        email,
		PasswordHash: hash,
		Role:         authdomain.RoleAdministrator,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := conn.Create(&admin).Error; err != nil {
		return err
	}
	zap.L().Info("bootstrap administrator created", zap.String("email", email))
	return nil
}
