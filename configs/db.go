package configs

import (
	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var db *gorm.DB

func DB() *gorm.DB {
	return db
}

func ConnectionDB(cfg *Config) {
	var (
		database *gorm.DB
		err      error
	)
	switch cfg.DBDriver {
	case "postgres":
		database, err = gorm.Open(postgres.Open(cfg.DBSource), &gorm.Config{})
	default:
		database, err = gorm.Open(sqlite.Open(cfg.DBSource), &gorm.Config{})
	}
	if err != nil {
		panic("failed to connect database")
	}
	db = database
}

func SetupDatabase() {
	db.AutoMigrate(
		&entity.User{},
		&entity.Product{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.FreshPlan{}, &entity.PlanScheduleDraft{}, &entity.PlanDraftItem{},
		&entity.PlanDay{},
		&entity.Withdrawal{}, &entity.WalletTransaction{},
	)
}
