package configs

import (
	"fmt"

	"github.com/Pavithran-Vijayalakshmi/FOODDELIVERY/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

// ConnectDB opens the configured database. TranslateError is required so
// unique-index violations surface as gorm.ErrDuplicatedKey on every driver;
// coupon usage and webhook replay detection depend on it.
func ConnectDB(cfg *Config) error {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBSource)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBSource)
	default:
		return fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	database, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	db = database
	return nil
}

func SetupDatabase() error {
	return db.AutoMigrate(
		&entity.Restaurant{}, &entity.MenuItem{},
		&entity.SavedAddress{},
		&entity.CartLine{},
		&entity.Coupon{}, &entity.CouponUsage{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.DeliveryPartner{}, &entity.DeliveryPerson{},
		&entity.WebhookEvent{},
	)
}
