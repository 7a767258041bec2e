// Package seed populates reference data required at startup.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	registrydomain "github.com/std-1224/payper-tenant/internal/moduleregistry/domain"
	"gorm.io/gorm"
)

type registryModule struct {
	Key         string
	Name        string
	Description string
	IsCore      bool
}

var registryModules = []registryModule{
	{"pos", "Point of Sale", "In-venue ordering and checkout", true},
	{"orders", "Order Management", "Live order feed and fulfilment", true},
	{"stock", "Stock Control", "Inventory levels and depletion", false},
	{"recipes", "Recipes", "Product to ingredient mapping", false},
	{"staff", "Staff", "Venue staff roster", false},
	{"cashflow", "Cashflow", "Cash movement tracking", false},
	{"alerts", "System Alerts", "Operational alerting", false},
	{"qr", "QR Ordering", "Customer self-service via QR codes", false},
}

// EnsureModuleRegistry seeds the platform module catalog. Existing rows
// are left untouched so operators can rename modules without the seed
// reverting them.
func EnsureModuleRegistry(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range registryModules {
			var existing registrydomain.AppModule
			err := tx.WithContext(ctx).Where("key = ?", m.Key).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			record := registrydomain.AppModule{
				ID:          node.Generate(),
				Key:         m.Key,
				Name:        m.Name,
				Description: m.Description,
				IsCore:      m.IsCore,
			}
			if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
