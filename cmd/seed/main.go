package main

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cleanops/internal/config"
	"cleanops/internal/db"
	"cleanops/internal/model"
	"cleanops/internal/repository"
)

// SeedProfile describes a profile to create if its email is not taken.
type SeedProfile struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     model.Role
}

var seedProfiles = []SeedProfile{
	{Name: "Administrador", Email: "admin@cleanops.local", Password: "admin1234", Phone: "+34600000001", Role: model.RoleAdmin},
	{Name: "Laura Gómez", Email: "laura@example.com", Password: "cliente1234", Phone: "+34600000002", Address: "Calle Mayor 12", Role: model.RoleUser},
	{Name: "Carlos Ruiz", Email: "carlos@example.com", Password: "cliente1234", Phone: "+34600000003", Address: "Av. del Puerto 45", Role: model.RoleUser},
}

var seedTiers = []model.Discount{
	{Name: "Frecuente", Percent: decimal.NewFromInt(5), MinServices: 5, Active: true},
	{Name: "Preferente", Percent: decimal.NewFromInt(10), MinServices: 15, Active: true},
	{Name: "VIP", Percent: decimal.NewFromInt(15), MinServices: 30, Active: true},
}

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.Location{},
		&model.Discount{},
		&model.LoyaltyRecord{},
		&model.ServiceRequest{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	profileRepo := repository.NewProfileRepository(gormDB)
	locationRepo := repository.NewLocationRepository(gormDB)
	discountRepo := repository.NewDiscountRepository(gormDB)

	created, skipped, err := seedProfilesAndLocations(ctx, profileRepo, locationRepo)
	if err != nil {
		log.Fatalf("Failed to seed profiles: %v", err)
	}

	tiersCreated, tiersSkipped, err := seedDiscountTiers(ctx, discountRepo)
	if err != nil {
		log.Fatalf("Failed to seed discount tiers: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Profiles created: %d (skipped existing: %d)", created, skipped)
	log.Printf("  - Discount tiers created: %d (skipped existing: %d)", tiersCreated, tiersSkipped)
}

// seedProfilesAndLocations creates the demo profiles, skipping any whose
// email is already registered. Clients with a seed address also get a
// default saved location.
func seedProfilesAndLocations(ctx context.Context, profiles repository.ProfileRepository, locations repository.LocationRepository) (created int, skipped int, err error) {
	for _, item := range seedProfiles {
		existing, err := profiles.FindByEmail(ctx, item.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, skipped, fmt.Errorf("error checking profile %s: %w", item.Email, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(item.Password), bcrypt.DefaultCost)
		if err != nil {
			return created, skipped, fmt.Errorf("error hashing password for %s: %w", item.Email, err)
		}

		profile := &model.Profile{
			Name:         item.Name,
			Email:        item.Email,
			PasswordHash: string(hash),
			Phone:        item.Phone,
			Address:      item.Address,
			Role:         item.Role,
			Active:       true,
		}
		if err := profiles.Create(ctx, profile); err != nil {
			return created, skipped, fmt.Errorf("error creating profile %s: %w", item.Email, err)
		}
		created++

		if item.Address == "" {
			continue
		}
		location := &model.Location{
			ProfileID: profile.ID,
			Label:     "Casa",
			Address:   item.Address,
			City:      "Madrid",
		}
		if err := locations.Create(ctx, location); err != nil {
			return created, skipped, fmt.Errorf("error creating location for %s: %w", item.Email, err)
		}
	}
	return created, skipped, nil
}

// seedDiscountTiers creates the default loyalty tiers, matching on name.
func seedDiscountTiers(ctx context.Context, discounts repository.DiscountRepository) (created int, skipped int, err error) {
	existing, err := discounts.List(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing discount tiers: %w", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, d := range existing {
		byName[d.Name] = true
	}

	for _, tier := range seedTiers {
		if byName[tier.Name] {
			skipped++
			continue
		}
		t := tier
		if err := discounts.Create(ctx, &t); err != nil {
			return created, skipped, fmt.Errorf("error creating discount tier %s: %w", tier.Name, err)
		}
		created++
	}
	return created, skipped, nil
}
