package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/configs"
	"github.com/maxmaindev/citizen-appeals/routes"
)

func main() {
	cfg := configs.LoadConfig()

	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()
	configs.SetupDatabase()

	if err := configs.SeedAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin failed: %v", err)
	}
	if err := configs.SeedLookups(); err != nil {
		log.Fatalf("seed lookups failed: %v", err)
	}

	r := gin.Default()

	if !cfg.UseMinio {
		r.Static("/uploads", cfg.UploadPath)
	}

	if err := routes.RegisterRoutes(r, db, cfg); err != nil {
		log.Fatalf("register routes failed: %v", err)
	}

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Println("server running at", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
