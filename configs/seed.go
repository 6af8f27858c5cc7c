package configs

import (
	"log"

	"github.com/maxmaindev/citizen-appeals/entity"
	"golang.org/x/crypto/bcrypt"
)

// SeedAdmin creates the first admin account from env, once.
func SeedAdmin(email, password string) error {
	db := DB()
	if email == "" || password == "" {
		log.Println("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	db.Model(&entity.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
		IsActive:  true,
	}
	return db.Create(&admin).Error
}

// SeedLookups inserts the default appeal categories a fresh install starts with.
func SeedLookups() error {
	db := DB()

	categories := []entity.Category{
		{Name: "Roads and sidewalks", DefaultPriority: 2},
		{Name: "Street lighting", DefaultPriority: 2},
		{Name: "Water supply", DefaultPriority: 1},
		{Name: "Waste management", DefaultPriority: 2},
		{Name: "Green zones", DefaultPriority: 3},
		{Name: "Public transport", DefaultPriority: 2},
	}
	for _, c := range categories {
		var out entity.Category
		if err := db.Where(entity.Category{Name: c.Name}).
			Attrs(entity.Category{DefaultPriority: c.DefaultPriority, IsActive: true}).
			FirstOrCreate(&out).Error; err != nil {
			return err
		}
	}
	return nil
}
