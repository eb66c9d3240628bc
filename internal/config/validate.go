package config

import (
	"fmt"
	"strings"

	"github.com/punchamoorthee/ledgerview/internal/domain"
)

var knownPermissions = map[domain.Permission]bool{
	domain.PermSuperAdmin:         true,
	domain.PermAccountViewOwn:     true,
	domain.PermAccountCreate:      true,
	domain.PermAccountUpdateOwn:   true,
	domain.PermAccountDepositOwn:  true,
	domain.PermAccountWithdrawOwn: true,
	domain.PermAccountAdmin:       true,
	domain.PermTransactionViewOwn: true,
}

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Database.SeedFromDB && strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.seed_from_db requires database.dsn")
	}
	for _, g := range c.Auth.Grants {
		if !knownPermissions[domain.Permission(g)] {
			return fmt.Errorf("auth.grants: unknown permission %d", g)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}

// Permissions converts the configured grants to domain permissions.
func (a AuthConfig) Permissions() []domain.Permission {
	perms := make([]domain.Permission, len(a.Grants))
	for i, g := range a.Grants {
		perms[i] = domain.Permission(g)
	}
	return perms
}
