package configs

import (
	"log"

	"github.com/Strmly-Technologies/Delivery-Page-sub000/entity"
	"github.com/Strmly-Technologies/Delivery-Page-sub000/utils"

	"golang.org/x/crypto/bcrypt"
)

func SeedAdmin() error {
	db := DB()
	email := getEnv("ADMIN_EMAIL", "")
	pass := getEnv("ADMIN_PASSWORD", "")
	if email == "" || pass == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		log.Println("admin already exists:", email)
		return nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	admin := entity.User{
		Email:        email,
		Password:     string(hash),
		FirstName:    "Admin",
		LastName:     "Seed",
		Role:         entity.RoleAdmin,
		ReferralCode: utils.NewReferralCode(),
	}
	return db.Create(&admin).Error
}

// SeedProducts loads the starter catalog. Product CRUD lives outside this
// service; checkout only reads these rows.
func SeedProducts() error {
	db := DB()

	products := []entity.Product{
		{Name: "Orange Juice", Category: entity.CategoryJuice, Price: 60},
		{Name: "Watermelon Juice", Category: entity.CategoryJuice, Price: 50},
		{Name: "Pomegranate Juice", Category: entity.CategoryJuice, Price: 90},
		{Name: "Banana Shake", Category: entity.CategoryShake, Price: 70},
		{Name: "Chocolate Shake", Category: entity.CategoryShake, Price: 80},
		{Name: "Mango Shake", Category: entity.CategoryShake, Price: 85},
	}
	for i := range products {
		if err := db.Where(entity.Product{Name: products[i].Name}).FirstOrCreate(&products[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
