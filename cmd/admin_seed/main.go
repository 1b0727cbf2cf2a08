// Command admin_seed creates the platform owner principal so the engine can
// be administered immediately after first deployment.
package main

import (
	"log"
	"os"

	"escrowd/internal/config"
	"escrowd/internal/models"
	"escrowd/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	ownerAddress := os.Getenv("PLATFORM_OWNER")
	ownerSecret := os.Getenv("PLATFORM_OWNER_SECRET")

	if ownerAddress == "" || ownerSecret == "" {
		log.Fatal("PLATFORM_OWNER and PLATFORM_OWNER_SECRET must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	principals := repositories.NewPrincipalRepository(repositories.DB)

	if _, err := principals.GetByAddress(ownerAddress); err == nil {
		log.Println("Owner principal already exists")
		return
	}

	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(ownerSecret), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash secret:", err)
	}

	owner := models.Principal{
		Address:      ownerAddress,
		SecretHash:   string(hashedSecret),
		Role:         models.PrincipalRoleOwner,
		TokenVersion: 1,
	}

	if err := principals.Create(&owner); err != nil {
		log.Fatal("Failed to create owner principal:", err)
	}

	log.Println("✅ Owner principal created successfully!")
}
