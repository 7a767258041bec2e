package migration

import (
	auditdomain "github.com/std-1224/payper-tenant/internal/audit/domain"
	authdomain "github.com/std-1224/payper-tenant/internal/auth/domain"
	"github.com/std-1224/payper-tenant/internal/config"
	globaladmindomain "github.com/std-1224/payper-tenant/internal/globaladmin/domain"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	"github.com/std-1224/payper-tenant/internal/seed"
	tenantdomain "github.com/std-1224/payper-tenant/internal/tenant/domain"
	venuedomain "github.com/std-1224/payper-tenant/internal/venue/domain"
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
			// sqlite and mysql are dev conveniences; the versioned SQL
			// migrations target postgres.
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}

		return seed.EnsureModuleRegistry(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&authdomain.Session{},
		&globaladmindomain.GlobalAdmin{},
		&registrydomain.AppModule{},
		&tenantdomain.Tenant{},
		&tenantdomain.Contact{},
		&tenantdomain.ModuleActivation{},
		&tenantdomain.User{},
		&tenantdomain.Location{},
		&auditdomain.AuditLog{},
		&venuedomain.Venue{},
		&venuedomain.Bar{},
		&venuedomain.QRCode{},
		&venuedomain.Order{},
		&venuedomain.CashflowEntry{},
		&venuedomain.StockItem{},
		&venuedomain.Recipe{},
		&venuedomain.StaffMember{},
		&venuedomain.SystemAlert{},
	)
}
