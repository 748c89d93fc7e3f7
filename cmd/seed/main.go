package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"blogapi/internal/config"
	"blogapi/internal/db"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

var defaultCategories = []string{
	"Technology",
	"Travel",
	"Food",
	"Lifestyle",
	"Programming",
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Category{}, &model.Post{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	categoryRepo := repository.NewCategoryRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	for _, name := range defaultCategories {
		category, err := categoryRepo.FindByNameOrCreate(ctx, &model.Category{Name: name})
		if err != nil {
			log.Fatalf("Failed to seed category %q: %v", name, err)
		}
		log.Printf("Category %q ready (id=%s)", category.Name, category.ID)
	}

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	log.Println("Seed completed")
}

// seedAdmin creates the admin account from env-configurable credentials,
// skipping if it already exists.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	email := getEnv("SEED_ADMIN_EMAIL", "admin@example.com")
	username := getEnv("SEED_ADMIN_USERNAME", "admin")
	password := getEnv("SEED_ADMIN_PASSWORD", "changeme123")

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin user %s already exists, skipping", email)
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin user %s created (id=%s)", email, admin.ID)
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
